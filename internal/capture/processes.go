package capture

import (
	"context"
	"sort"

	"github.com/aleister1102/screentrack/internal/errorwrapper"
	"github.com/shirou/gopsutil/v3/process"
)

// ProcessInfo describes one running process for the `processes` command
type ProcessInfo struct {
	PID      int32   `json:"pid"`
	Name     string  `json:"name"`
	CPU      float64 `json:"cpu_percent"`
	MemoryMB float64 `json:"memory_mb"`
}

// ListProcesses returns the running processes sorted by CPU usage descending.
// Processes that vanish or deny access mid-listing are skipped.
func ListProcesses(ctx context.Context) ([]ProcessInfo, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to list processes")
	}

	infos := make([]ProcessInfo, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}

		info := ProcessInfo{PID: p.Pid, Name: name}
		if cpu, err := p.CPUPercentWithContext(ctx); err == nil {
			info.CPU = cpu
		}
		if mem, err := p.MemoryInfoWithContext(ctx); err == nil && mem != nil {
			info.MemoryMB = float64(mem.RSS) / (1024 * 1024)
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].CPU != infos[j].CPU {
			return infos[i].CPU > infos[j].CPU
		}
		return infos[i].PID < infos[j].PID
	})

	return infos, nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aleister1102/screentrack/internal/capture"
	"github.com/aleister1102/screentrack/internal/datastore"
)

func runCheckPermissions(args []string) error {
	fs := flag.NewFlagSet("check-permissions", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := capture.CheckPermissions(); err != nil {
		return err
	}
	fmt.Println("Screen capture permission granted.")
	return nil
}

func runScreenshot(args []string) error {
	fs := flag.NewFlagSet("screenshot", flag.ExitOnError)
	output := fs.String("output", ".", "Directory to write the screenshots to")
	outputAlias := fs.String("o", "", "Alias for --output")
	configPath := fs.String("config", "", "Path to the YAML/JSON configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *outputAlias != "" {
		*output = *outputAlias
	}

	gCfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	zLogger := newLogger(gCfg, "")

	if err := os.MkdirAll(*output, 0755); err != nil {
		return err
	}

	capturer := capture.NewCapturer(zLogger)
	frames, err := capturer.CaptureAll(context.Background())
	if err != nil {
		return err
	}

	for _, frame := range frames {
		data, err := capture.EncodePNG(frame.Image)
		if err != nil {
			return err
		}
		bounds := frame.Image.Bounds()
		name := datastore.ScreenshotFileName(frame.Timestamp, 1, frame.Monitor, bounds.Dx(), bounds.Dy())
		path := filepath.Join(*output, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return err
		}
		fmt.Printf("Saved monitor %d screenshot to %s\n", frame.Monitor, path)
	}
	return nil
}

func runMonitors(args []string) error {
	fs := flag.NewFlagSet("monitors", flag.ExitOnError)
	width := fs.Int("width", 0, "Column width of the monitor layout sketch (0 disables the sketch)")
	widthAlias := fs.Int("w", 0, "Alias for --width")
	configPath := fs.String("config", "", "Path to the YAML/JSON configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *width == 0 {
		*width = *widthAlias
	}

	gCfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	zLogger := newLogger(gCfg, "")

	capturer := capture.NewCapturer(zLogger)
	monitors, err := capturer.Monitors()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tPOSITION\tSIZE\tPRIMARY")
	for _, m := range monitors {
		primary := ""
		if m.Primary {
			primary = "yes"
		}
		fmt.Fprintf(w, "%d\tx=%d, y=%d\t%dx%d\t%s\n", m.Index, m.X, m.Y, m.Width, m.Height, primary)
	}
	w.Flush()

	if *width > 0 {
		fmt.Println()
		fmt.Print(drawMonitorLayout(monitors, *width))
	}
	return nil
}

// drawMonitorLayout renders the monitor arrangement as an ASCII sketch scaled
// to the given column width. Each cell shows the index of the monitor
// covering it; terminal cells are roughly twice as tall as wide, hence the
// halved row count.
func drawMonitorLayout(monitors []capture.Monitor, width int) string {
	if len(monitors) == 0 || width <= 0 {
		return ""
	}

	minX, minY := monitors[0].X, monitors[0].Y
	maxX, maxY := monitors[0].X+monitors[0].Width, monitors[0].Y+monitors[0].Height
	for _, m := range monitors[1:] {
		if m.X < minX {
			minX = m.X
		}
		if m.Y < minY {
			minY = m.Y
		}
		if m.X+m.Width > maxX {
			maxX = m.X + m.Width
		}
		if m.Y+m.Height > maxY {
			maxY = m.Y + m.Height
		}
	}

	totalW := maxX - minX
	totalH := maxY - minY
	height := width * totalH / totalW / 2
	if height < 1 {
		height = 1
	}

	grid := make([][]rune, height)
	for y := range grid {
		grid[y] = make([]rune, width)
		for x := range grid[y] {
			grid[y][x] = '.'
		}
	}

	for _, m := range monitors {
		x0 := (m.X - minX) * width / totalW
		x1 := (m.X - minX + m.Width) * width / totalW
		y0 := (m.Y - minY) * height / totalH
		y1 := (m.Y - minY + m.Height) * height / totalH
		for y := y0; y < y1 && y < height; y++ {
			for x := x0; x < x1 && x < width; x++ {
				grid[y][x] = rune('0' + m.Index%10)
			}
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func runWindows(args []string) error {
	fs := flag.NewFlagSet("windows", flag.ExitOnError)
	includeAll := fs.Bool("all", false, "Include minimized and non-normal windows")
	configPath := fs.String("config", "", "Path to the YAML/JSON configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	gCfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	zLogger := newLogger(gCfg, "")

	capturer := capture.NewCapturer(zLogger)
	windows, err := capturer.Windows(context.Background(), *includeAll)
	if err != nil {
		return err
	}

	if len(windows) == 0 {
		fmt.Printf("No visible windows found (%s)\n", capturer.Platform())
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPID\tAPPLICATION\tWINDOW\tPOSITION\tSIZE\tLAYER\tSTACK\tVISIBLE %\tDISPLAY")
	for _, win := range windows {
		title := win.Title
		if title == "" {
			title = "-"
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\tx=%d, y=%d\t%dx%d\t%d\t%d\t%.0f%%\t%d\n",
			win.ID, win.PID, win.App, title, win.X, win.Y, win.Width, win.Height,
			win.Layer, win.StackOrder, win.VisiblePercent, win.Monitor)
	}
	return w.Flush()
}

func runProcesses(args []string) error {
	fs := flag.NewFlagSet("processes", flag.ExitOnError)
	top := fs.Int("top", 0, "Show only the top N processes by CPU (0 shows all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	procs, err := capture.ListProcesses(ctx)
	if err != nil {
		return err
	}
	if *top > 0 && *top < len(procs) {
		procs = procs[:*top]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PID\tNAME\tCPU %\tMEMORY MB")
	for _, p := range procs {
		fmt.Fprintf(w, "%d\t%s\t%.1f\t%.1f\n", p.PID, p.Name, p.CPU, p.MemoryMB)
	}
	return w.Flush()
}

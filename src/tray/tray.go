package tray

import (
	"log"
	"os/exec"
	"runtime"
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the system tray entry for the resident process. Menu actions are
// delivered through callbacks so the tray stays free of capture logic.
type Tray struct {
	onCapture func()
	onQuit    func()
	outputDir string
	hotkey    string

	mu      sync.Mutex
	tooltip *systray.MenuItem
}

// Config wires the tray callbacks.
type Config struct {
	HotkeyText string
	OutputDir  string
	OnCapture  func()
	OnQuit     func()
}

func New(cfg Config) *Tray {
	return &Tray{
		onCapture: cfg.OnCapture,
		onQuit:    cfg.OnQuit,
		outputDir: cfg.OutputDir,
		hotkey:    cfg.HotkeyText,
	}
}

// Run starts the systray loop. Blocks until Quit.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Destroy tears the tray down.
func (t *Tray) Destroy() {
	systray.Quit()
}

// UpdateTooltip replaces the hover text on the tray icon.
func (t *Tray) UpdateTooltip(text string) {
	systray.SetTooltip(text)
}

func (t *Tray) onReady() {
	systray.SetIcon(getIcon())
	systray.SetTitle("Screen Region Capture")
	systray.SetTooltip("Screen Region Capture - Press " + t.hotkey + " to capture")

	mCapture := systray.AddMenuItem("Capture Screen ("+t.hotkey+")", "Start a capture session")
	mOpenDir := systray.AddMenuItem("Open Output Folder", "Open the screenshot directory")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit the application")

	go func() {
		for {
			select {
			case <-mCapture.ClickedCh:
				if t.onCapture != nil {
					t.onCapture()
				}
			case <-mOpenDir.ClickedCh:
				t.openOutputDir()
			case <-mQuit.ClickedCh:
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func (t *Tray) openOutputDir() {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("explorer", t.outputDir)
	case "darwin":
		cmd = exec.Command("open", t.outputDir)
	default:
		cmd = exec.Command("xdg-open", t.outputDir)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("TRAY: failed to open output folder %s: %v", t.outputDir, err)
	}
}

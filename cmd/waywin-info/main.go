// Command waywin-info connects to the running compositor and prints
// what a backend session would see: outputs, their mode lists, shm
// formats, and the detected keyboard layout.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"deedles.dev/waywin"
	"deedles.dev/waywin/win"
	"deedles.dev/waywin/wl"
)

var rootCmd = &cobra.Command{
	Use:          "waywin-info",
	Short:        "Inspect the compositor session as the backend sees it",
	SilenceUsage: true,
}

var outputsCmd = &cobra.Command{
	Use:   "outputs",
	Short: "List outputs and their mode tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, err := cmd.Flags().GetBool("all-modes")
		if err != nil {
			return err
		}

		s, err := dial()
		if err != nil {
			return err
		}
		defer s.Close()

		for _, o := range s.Outputs() {
			fmt.Printf("%s: logical %v, physical origin (%d,%d), scale %d\n",
				o.DisplayName, o.Logical, o.Physical.X, o.Physical.Y, o.Scale)
			for _, m := range o.Modes {
				if !all && !m.Native {
					continue
				}
				marker := "  "
				if o.Current != nil && m == *o.Current {
					marker = "* "
				}
				kind := "virtual"
				if m.Native {
					kind = "native"
				}
				fmt.Printf("  %s%dx%d %dbpp @ %d.%03d Hz (%s)\n",
					marker, m.Width, m.Height, m.Bits,
					m.Refresh/1000, m.Refresh%1000, kind)
			}
		}
		return nil
	},
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "Show which shm formats the compositor accepts",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := dial()
		if err != nil {
			return err
		}
		defer s.Close()

		for _, f := range []struct {
			name   string
			format wl.ShmFormat
		}{
			{"ARGB8888", wl.ShmFormatArgb8888},
			{"XRGB8888", wl.ShmFormatXrgb8888},
		} {
			state := "no"
			if s.SupportsFormat(f.format) {
				state = "yes"
			}
			fmt.Printf("%s: %s\n", f.name, state)
		}
		return nil
	},
}

// dial opens a session against a host stub that swallows everything
// the backend pushes back. Two round trips settle the registry and
// the output inventory.
func dial() (*waywin.Session, error) {
	s, err := waywin.NewSession(nullHost{}, waywin.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := s.RoundTrip(); err != nil {
		s.Close()
		return nil, fmt.Errorf("round trip: %w", err)
	}
	return s, nil
}

func init() {
	outputsCmd.Flags().Bool("all-modes", false, "include virtual modes")
	rootCmd.AddCommand(outputsCmd)
	rootCmd.AddCommand(formatsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// nullHost satisfies the backend's host callbacks without a real
// window system behind them.
type nullHost struct{}

func (nullHost) ApplyWindowPos(win.HWND, win.Rect, *win.ConfigureContext) {}
func (nullHost) SetWindowStyle(win.HWND, win.Style, win.Style)           {}
func (nullHost) SysCommand(win.HWND, uint32)                             {}
func (nullHost) PostMessage(win.HWND, uint32, uint32, uint32)            {}
func (nullHost) SendKeyboardInput(win.KeyboardInput)                     {}
func (nullHost) SendMouseInput(win.MouseInput)                           {}
func (nullHost) SetForegroundWindow(win.HWND) bool                       { return false }
func (nullHost) ForegroundWindow() win.HWND                              { return 0 }
func (nullHost) FocusWindow() win.HWND                                   { return 0 }
func (nullHost) WindowFromPoint(win.Point) win.HWND                      { return 0 }
func (nullHost) IsWindowVisible(win.HWND) bool                           { return false }
func (nullHost) MonitorRect(win.HWND) win.Rect                           { return win.Rect{} }
func (nullHost) DisplayChanged()                                         {}
func (nullHost) Clipboard() win.Clipboard                                { return &nullClipboard{} }

func (nullHost) CursorImage(win.Cursor) (*win.CursorImage, error) {
	return nil, fmt.Errorf("no cursors here")
}

// nullClipboard is just enough clipboard for session startup to
// register its formats against.
type nullClipboard struct {
	next win.ClipboardFormat
}

func (c *nullClipboard) Open(win.HWND) bool                     { return true }
func (c *nullClipboard) Close()                                 {}
func (c *nullClipboard) Empty()                                 {}
func (c *nullClipboard) SetDelayed(win.ClipboardFormat)         {}
func (c *nullClipboard) Set(win.ClipboardFormat, []byte)        {}
func (c *nullClipboard) Formats() []win.ClipboardFormat         { return nil }
func (c *nullClipboard) Data(win.ClipboardFormat) ([]byte, bool) { return nil, false }
func (c *nullClipboard) IsOwned() bool                          { return false }

func (c *nullClipboard) RegisterFormat(string) win.ClipboardFormat {
	c.next++
	return win.CFRegisteredBase + c.next
}

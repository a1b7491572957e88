//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

const (
	outputCap    = 1 << 20 // bytes of terminal output kept per app
	pollInterval = 25 * time.Millisecond
	seeTimeout   = 3 * time.Second
)

var binPath = "stationhub_e2e"

// Keys understood by stationhub
const (
	KeyEnter   = "\r"
	KeyCtrlC   = "\x03"
	KeyTab     = "\t"
	KeyEsc     = "\x1b"
	KeyDown    = "j"
	KeyBottom  = "G"
	KeyQuit    = "q"
	KeyInstall = "i"
	KeyRescan  = "s"
)

// ansiRe strips CSI, OSC, charset and keypad sequences plus carriage returns
var ansiRe = regexp.MustCompile(
	`(?:\x1b\[[0-9;?]*[ -/]*[@-~])|` +
		`(?:\x1b\][^\x07]*\x07)|` +
		`(?:\x1b[\(\)][A-Za-z])|` +
		`(?:\x1b=|\x1b>)|` +
		`\r`,
)

// TUITestFramework drives one stationhub process through a pty
type TUITestFramework struct {
	t         *testing.T
	pty       *os.File
	tty       *os.File
	cmd       *exec.Cmd
	workspace string

	// everything the app wrote, capped at outputCap
	mu  sync.Mutex
	out []byte
}

// NewTUITest creates a driver for t
func NewTUITest(t *testing.T) *TUITestFramework {
	return &TUITestFramework{t: t}
}

// StartApp runs stationhub with args inside a 120x40 pty
func (tf *TUITestFramework) StartApp(args ...string) error {
	tf.cmd = exec.Command(binPath, args...)
	tf.cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C",
		"LANG=C",
		"HOME="+tf.workspace,
		"XDG_CONFIG_HOME="+tf.workspace,
		"STATIONHUB_E2E_TEST=1",
	)

	ptyFile, tty, err := pty.Open()
	if err != nil {
		return fmt.Errorf("failed to open pty: %w", err)
	}
	if err := pty.Setsize(ptyFile, &pty.Winsize{Rows: 40, Cols: 120}); err != nil {
		ptyFile.Close()
		tty.Close()
		return fmt.Errorf("failed to size pty: %w", err)
	}

	tf.pty = ptyFile
	tf.tty = tty
	tf.cmd.Stdin = tty
	tf.cmd.Stdout = tty
	tf.cmd.Stderr = tty

	if err := tf.cmd.Start(); err != nil {
		ptyFile.Close()
		tty.Close()
		return fmt.Errorf("failed to start command: %w", err)
	}

	go tf.capture(ptyFile)
	return nil
}

func (tf *TUITestFramework) capture(r *os.File) {
	buf := make([]byte, 8192)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			tf.mu.Lock()
			tf.out = append(tf.out, buf[:n]...)
			if over := len(tf.out) - outputCap; over > 0 {
				tf.out = tf.out[over:]
			}
			tf.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// SendKeys writes raw keystrokes to the app
func (tf *TUITestFramework) SendKeys(keys string) error {
	tf.t.Helper()
	_, err := tf.pty.Write([]byte(keys))
	return err
}

func (tf *TUITestFramework) Enter() error { return tf.SendKeys(KeyEnter) }
func (tf *TUITestFramework) SendCtrlC() error { return tf.SendKeys(KeyCtrlC) }
func (tf *TUITestFramework) Tab() error { return tf.SendKeys(KeyTab) }
func (tf *TUITestFramework) Esc() error { return tf.SendKeys(KeyEsc) }
func (tf *TUITestFramework) Down() error { return tf.SendKeys(KeyDown) }
func (tf *TUITestFramework) Bottom() error { return tf.SendKeys(KeyBottom) }
func (tf *TUITestFramework) Quit() error { return tf.SendKeys(KeyQuit) }
func (tf *TUITestFramework) Install() error { return tf.SendKeys(KeyInstall) }
func (tf *TUITestFramework) Rescan() error { return tf.SendKeys(KeyRescan) }

// Ready waits for the marker the app prints before the UI starts
func (tf *TUITestFramework) Ready() bool {
	tf.t.Helper()
	return tf.WaitFor(func(s string) bool { return strings.Contains(s, "__READY__") }, 5*time.Second)
}

// SeePlain waits for text to appear anywhere in the ANSI-stripped output
func (tf *TUITestFramework) SeePlain(text string) bool {
	tf.t.Helper()
	return tf.SeePlainSince(0, text)
}

// SeePlainSince is SeePlain restricted to output written after mark, a
// value previously returned by Mark
func (tf *TUITestFramework) SeePlainSince(mark int, text string) bool {
	tf.t.Helper()
	return tf.WaitFor(func(s string) bool {
		if mark > len(s) {
			mark = len(s)
		}
		return strings.Contains(ansiRe.ReplaceAllString(s[mark:], ""), text)
	}, seeTimeout)
}

// Mark returns the current end of the captured output
func (tf *TUITestFramework) Mark() int {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	return len(tf.out)
}

// WaitForStatusMessage waits for a status line message written after mark
func (tf *TUITestFramework) WaitForStatusMessage(mark int, message string) error {
	tf.t.Helper()
	return tf.WaitForE(func(s string) bool {
		if mark > len(s) {
			mark = len(s)
		}
		return strings.Contains(ansiRe.ReplaceAllString(s[mark:], ""), message)
	}, seeTimeout, fmt.Sprintf("status %q never shown", message))
}

// WaitFor polls the raw output until pred holds or timeout passes
func (tf *TUITestFramework) WaitFor(pred func(string) bool, timeout time.Duration) bool {
	tf.t.Helper()
	return tf.WaitForE(pred, timeout, "") == nil
}

// WaitForE is WaitFor returning failMsg and the output tail on timeout
func (tf *TUITestFramework) WaitForE(pred func(string) bool, timeout time.Duration, failMsg string) error {
	tf.t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if pred(tf.Snapshot()) {
			return nil
		}
		if time.Now().After(deadline) {
			tail := tf.SnapshotPlain()
			if len(tail) > 4096 {
				tail = tail[len(tail)-4096:]
			}
			return fmt.Errorf("%s\n--- tail ---\n%s", failMsg, tail)
		}
		time.Sleep(pollInterval)
	}
}

// Snapshot returns the captured output
func (tf *TUITestFramework) Snapshot() string {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	return string(tf.out)
}

// SnapshotPlain returns the captured output without escape sequences
func (tf *TUITestFramework) SnapshotPlain() string {
	return ansiRe.ReplaceAllString(tf.Snapshot(), "")
}

// DumpTailOnFail writes the last n bytes of plain output next to the test
func (tf *TUITestFramework) DumpTailOnFail(t *testing.T, name string, n int) {
	s := tf.SnapshotPlain()
	if len(s) > n {
		s = s[len(s)-n:]
	}
	p := filepath.Join(t.TempDir(), name+".txt")
	_ = os.WriteFile(p, []byte(s), 0o644)
	t.Logf("Saved tail to %s", p)
}

// Cleanup closes the pty and kills the app if it is still running
func (tf *TUITestFramework) Cleanup() {
	if tf.pty != nil {
		_ = tf.pty.Close()
		tf.pty = nil
	}
	if tf.tty != nil {
		_ = tf.tty.Close()
		tf.tty = nil
	}
	if tf.cmd != nil && tf.cmd.Process != nil {
		_ = tf.cmd.Process.Kill()
		_, _ = tf.cmd.Process.Wait()
		tf.cmd = nil
	}
}

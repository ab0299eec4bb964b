package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/d3d12-capture/capture"
	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/command"
	"github.com/wippyai/d3d12-capture/config"
	"github.com/wippyai/d3d12-capture/d3d12"
)

func writeCapture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frame.d3dc")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rec, err := capture.NewRecorder(f, capture.Options{
		Application: "sample.exe",
		Compression: capture.CompressionLZ4,
		Checksum:    true,
	})
	if err != nil {
		t.Fatal(err)
	}
	cmds := []command.Command{
		&command.CreateDescriptorHeap{
			Device: 1,
			Desc:   codec.PtrTo(d3d12.DescriptorHeapDesc{NumDescriptors: 16}),
			Heap:   codec.ObjectOut{Addr: 0x100, Key: 2},
		},
		&command.SetName{Object: 2, Name: codec.NewWString("srv heap")},
		&command.SetPipelineState{CommandList: 3, PipelineState: 4},
		&command.SetPipelineState{CommandList: 3, PipelineState: 5},
	}
	for _, c := range cmds {
		if _, err := rec.Record(7, c); err != nil {
			t.Fatal(err)
		}
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDump(t *testing.T) {
	t.Setenv(config.EnvVar, "")
	path := writeCapture(t)

	var out bytes.Buffer
	if err := run([]string{path}, &out); err != nil {
		t.Fatal(err)
	}
	s := out.String()
	for _, want := range []string{
		"Application: sample.exe",
		"compression: lz4",
		"Commands: 4  objects created: 1",
		`#2 = "srv heap"`,
		"device #1 -> #2, 16 descriptors",
		"list #3, pso #5",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q:\n%s", want, s)
		}
	}
}

func TestDumpCallFilter(t *testing.T) {
	t.Setenv(config.EnvVar, "")
	path := writeCapture(t)

	var out bytes.Buffer
	err := run([]string{"--call", command.CallSetPipelineState.String(), path}, &out)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(out.String(), command.CallSetPipelineState.String()); n != 2 {
		t.Errorf("filtered output has %d SetPipelineState lines:\n%s", n, out.String())
	}
	if strings.Contains(out.String(), "SetName") {
		t.Error("filter let other calls through")
	}

	if err := run([]string{"--call", "ID3D12Device::Bogus", path}, &out); err == nil {
		t.Error("unknown call name should fail")
	}
}

func TestList(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"--list"}, &out); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != len(command.Calls()) {
		t.Errorf("listed %d calls, want %d", len(lines), len(command.Calls()))
	}
}

func TestRewrite(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "capdump.yaml")
	if err := os.WriteFile(cfgPath, []byte("capture:\n  compression: zstd\n  checksum: false\ndump:\n  interactive: never\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	src := writeCapture(t)
	dst := filepath.Join(dir, "rewritten.d3dc")

	var out bytes.Buffer
	if err := run([]string{"--config", cfgPath, "--rewrite", dst, src}, &out); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := run([]string{"--config", cfgPath, dst}, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "compression: zstd  checksum: false") {
		t.Errorf("rewritten header:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Commands: 4") {
		t.Errorf("rewritten commands:\n%s", out.String())
	}
}

func TestArgumentErrors(t *testing.T) {
	var out bytes.Buffer
	if err := run(nil, &out); err == nil {
		t.Error("missing capture path should fail")
	}
	if err := run([]string{filepath.Join(t.TempDir(), "absent.d3dc")}, &out); err == nil {
		t.Error("missing capture file should fail")
	}
}

func TestWantInteractive(t *testing.T) {
	var buf bytes.Buffer
	tests := []struct {
		flag bool
		mode string
		want bool
	}{
		{true, "never", true},
		{false, "always", true},
		{false, "never", false},
		{false, "auto", false},
	}
	for _, tt := range tests {
		if got := wantInteractive(tt.flag, tt.mode, &buf); got != tt.want {
			t.Errorf("wantInteractive(%v, %q) = %v", tt.flag, tt.mode, got)
		}
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowser(t *testing.T) {
	d := &decoded{
		path: "x.d3dc",
		commands: []command.Command{
			&command.SetName{Object: 1, Name: codec.NewWString("a")},
			&command.SetPipelineState{CommandList: 2, PipelineState: 3},
			&command.Unmap{Resource: 4},
		},
	}
	m := newBrowserModel(d, command.CallInvalid)
	if len(m.visible) != 3 {
		t.Fatalf("visible = %v", m.visible)
	}

	m.Update(key("down"))
	m.Update(key("enter"))
	if m.state != stateDetail {
		t.Fatal("enter should open the detail pane")
	}
	if !strings.Contains(m.View(), "PipelineState:3") {
		t.Errorf("detail view:\n%s", m.View())
	}
	m.Update(key("esc"))

	m.Update(key("/"))
	if m.state != stateFilter {
		t.Fatal("/ should focus the filter")
	}
	for _, r := range "unmap" {
		m.Update(key(string(r)))
	}
	m.Update(key("enter"))
	if len(m.visible) != 1 || d.commands[m.visible[0]].Call() != command.CallUnmap {
		t.Errorf("filtered = %v", m.visible)
	}

	f := newBrowserModel(d, command.CallSetName)
	if len(f.visible) != 1 {
		t.Errorf("initial call filter = %v", f.visible)
	}
}

func TestSummaryFallsBackToSize(t *testing.T) {
	c := &command.IASetIndexBuffer{CommandList: 1}
	if got := summary(c); !strings.HasSuffix(got, " bytes") {
		t.Errorf("summary = %q", got)
	}
}

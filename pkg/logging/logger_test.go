package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLevelNames(t *testing.T) {
	names := LevelNames()
	for _, l := range []Level{DebugLevel, InfoLevel, WarnLevel, ErrorLevel} {
		if !slices.Contains(names, strings.ToLower(l.String())) {
			t.Errorf("LevelNames() = %v, missing %s", names, l)
		}
	}
	if got := ParseLevel("warning"); got != WarnLevel {
		t.Errorf("ParseLevel(warning) = %v", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{"debug", DebugLevel},
		{"Info", InfoLevel},
		{"WARN", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"invalid", InfoLevel}, // Default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for input, want := range map[string]Format{"": FormatJSON, "json": FormatJSON, "Console": FormatConsole} {
		got, err := ParseFormat(input)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", input, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

func TestFieldConstructors(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"String", String("key", "value"), "key", "value"},
		{"Int", Int("count", 42), "count", 42},
		{"Uint64", Uint64("id", 9876543210), "id", uint64(9876543210)},
		{"Float64", Float64("rate", 12.5), "rate", 12.5},
		{"Bool", Bool("verbose", true), "verbose", true},
		{"Duration", Duration("timeout", 5*time.Second), "timeout", "5s"},
		{"Error", Error(errors.New("test error")), "error", "test error"},
		{"Error_nil", Error(nil), "error", nil},
		{"RunID", RunID("abc"), "run_id", "abc"},
		{"Sink", Sink(7), "sink", 7},
		{"SwitchID", SwitchID(3), "switch_id", 3},
		{"MuxSize", MuxSize(10), "mux_size", 10},
		{"BlockSize", BlockSize(2), "block_size", 2},
		{"Seed", Seed(99), "seed", uint64(99)},
		{"Workers", Workers(8), "workers", 8},
		{"Stage", Stage("first"), "stage", "first"},
		{"Latency", Latency(time.Millisecond), "latency", "1ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key || tt.field.Value != tt.value {
				t.Errorf("%s() = %+v, want {Key:%s Value:%v}", tt.name, tt.field, tt.key, tt.value)
			}
		})
	}
}

func TestJSONLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Info("mux analysed", Sink(12), MuxSize(4))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal log entry: %v", err)
	}

	if entry.Level != "INFO" {
		t.Errorf("Level = %v, want INFO", entry.Level)
	}
	if entry.Message != "mux analysed" {
		t.Errorf("Message = %v, want 'mux analysed'", entry.Message)
	}
	if entry.Fields["sink"] != float64(12) { // JSON unmarshals numbers as float64
		t.Errorf("Fields[sink] = %v, want 12", entry.Fields["sink"])
	}
	if entry.Time == "" {
		t.Error("Time field is empty")
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	// These should not be logged
	logger.Debug("debug message")
	logger.Info("info message")

	// These should be logged
	logger.Warn("warn message")
	logger.Error("error message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log entries, got %d", len(lines))
	}

	for i, want := range []string{"WARN", "ERROR"} {
		var entry LogEntry
		if err := json.Unmarshal([]byte(lines[i]), &entry); err != nil {
			t.Fatalf("Failed to unmarshal entry %d: %v", i, err)
		}
		if entry.Level != want {
			t.Errorf("Entry %d level = %v, want %v", i, entry.Level, want)
		}
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	childLogger := logger.With(RunID("run-1"), Component("simulation"))
	childLogger.Info("started", Workers(4))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if entry.Fields["run_id"] != "run-1" {
		t.Errorf("run_id field = %v, want run-1", entry.Fields["run_id"])
	}
	if entry.Fields["component"] != "simulation" {
		t.Errorf("component field = %v, want simulation", entry.Fields["component"])
	}
	if entry.Fields["workers"] != float64(4) {
		t.Errorf("workers field = %v, want 4", entry.Fields["workers"])
	}
}

func TestJSONLogger_ConcurrentChildren(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			child := logger.With(Int("worker", id))
			for j := 0; j < 50; j++ {
				child.Info("tick", Count(j))
			}
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 400 {
		t.Fatalf("Expected 400 lines, got %d", len(lines))
	}
	for _, line := range lines {
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("Interleaved line %q: %v", line, err)
		}
	}
}

func TestJSONLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.SetLevel(ErrorLevel)
	if logger.GetLevel() != ErrorLevel {
		t.Errorf("After SetLevel, level = %v, want ErrorLevel", logger.GetLevel())
	}

	logger.Info("info")
	if buf.Len() != 0 {
		t.Error("Expected no output for Info at ErrorLevel")
	}

	logger.Error("error")
	if buf.Len() == 0 {
		t.Error("Expected output for Error at ErrorLevel")
	}
}

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, DebugLevel, FormatConsole)

	logger.Warn("forced path conflict", Sink(5), BlockSize(3))

	line := buf.String()
	if !strings.HasSuffix(line, "\n") {
		t.Error("Console line should end with a newline")
	}
	for _, want := range []string{"WARN", "forced path conflict", "=5", "=3"} {
		if !strings.Contains(line, want) {
			t.Errorf("Console line %q missing %q", line, want)
		}
	}
	if strings.Index(line, "block_size") > strings.Index(line, "sink") {
		t.Error("Console fields should be sorted by key")
	}
}

func TestDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	previous := SetDefaultLogger(NewJSONLogger(&buf, DebugLevel))
	if previous == nil {
		t.Fatal("SetDefaultLogger should return the logger it replaces")
	}

	ErrorLog("error msg", Component("parallel"))

	var entry LogEntry
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("Failed to unmarshal entry: %v", err)
	}
	if entry.Level != "ERROR" || entry.Message != "error msg" || entry.Fields["component"] != "parallel" {
		t.Errorf("Unexpected entry %+v", entry)
	}

	SetDefaultLogger(previous)
	ErrorLog("goes to the restored logger")
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("Restored default should no longer write to the buffer: %q", buf.String())
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Info("ignored")
	if logger.With(Sink(1)) == nil {
		t.Error("NopLogger.With should return a logger")
	}
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	timer := StartTimer(logger, "simulation finished", RunID("r"))
	timer.End(Count(3))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if entry.Fields["latency"] == nil {
		t.Error("Timed entry should carry latency")
	}
	if entry.Fields["count"] != float64(3) || entry.Fields["run_id"] != "r" {
		t.Errorf("Timed entry fields = %v", entry.Fields)
	}

	buf.Reset()
	timer.EndError(errors.New("boom"))
	if !strings.Contains(buf.String(), `"error":"boom"`) {
		t.Errorf("EndError output = %q", buf.String())
	}
}

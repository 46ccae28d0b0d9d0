package trigger

import (
	"context"
	"fmt"
	"net"
	"os"
	"testing"
	"time"
)

// reservePort finds a free loopback port and pins the trigger range to it.
func reservePort(t *testing.T) int {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to reserve port: %v", err)
	}
	port := lis.Addr().(*net.TCPAddr).Port
	_ = lis.Close()

	os.Setenv("TRIGGER_PORT_START", fmt.Sprintf("%d", port))
	os.Setenv("TRIGGER_PORT_END", fmt.Sprintf("%d", port))
	t.Cleanup(func() {
		os.Unsetenv("TRIGGER_PORT_START")
		os.Unsetenv("TRIGGER_PORT_END")
	})
	return port
}

func TestPortRangeDefaults(t *testing.T) {
	os.Unsetenv("TRIGGER_PORT_START")
	os.Unsetenv("TRIGGER_PORT_END")
	start, end := PortRange()
	if start != defaultPortStart || end != defaultPortEnd {
		t.Errorf("Expected default range %d-%d, got %d-%d", defaultPortStart, defaultPortEnd, start, end)
	}
}

func TestPortRangeClamping(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		wantStart  int
		wantEnd    int
	}{
		{"below 1024 clamps", "80", "2000", 1024, 2000},
		{"inverted range swaps", "5000", "4000", 4000, 5000},
		{"invalid falls back", "abc", "def", defaultPortStart, defaultPortEnd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("TRIGGER_PORT_START", tt.start)
			os.Setenv("TRIGGER_PORT_END", tt.end)
			defer func() {
				os.Unsetenv("TRIGGER_PORT_START")
				os.Unsetenv("TRIGGER_PORT_END")
			}()
			start, end := PortRange()
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("Expected %d-%d, got %d-%d", tt.wantStart, tt.wantEnd, start, end)
			}
		})
	}
}

func TestServerAnswersPing(t *testing.T) {
	reservePort(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := NewServer()
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	defer srv.Close()

	addr := fmt.Sprintf("127.0.0.1:%d", srv.Port())
	if !ping(addr, time.Second) {
		t.Errorf("Expected PONG from resident")
	}
}

func TestClientDelegatesCapture(t *testing.T) {
	reservePort(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := NewServer()
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	defer srv.Close()

	// Resident side: acknowledge the next request.
	go func() {
		conn, err := srv.Next(ctx)
		if err != nil {
			return
		}
		_ = conn.RespondOK()
		_ = conn.Close()
	}()

	clientCtx, clientCancel := context.WithTimeout(ctx, 3*time.Second)
	defer clientCancel()

	delegated, err := NewClient().TryCapture(clientCtx)
	if err != nil {
		t.Fatalf("TryCapture failed: %v", err)
	}
	if !delegated {
		t.Errorf("Expected delegation to the resident")
	}
}

func TestClientNoResident(t *testing.T) {
	reservePort(t) // reserved but nobody listening

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	delegated, err := NewClient().TryCapture(ctx)
	if err != nil {
		t.Fatalf("TryCapture failed: %v", err)
	}
	if delegated {
		t.Errorf("Expected no delegation without a resident")
	}
}

func TestCloseWithPendingRequests(t *testing.T) {
	port := reservePort(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := NewServer()
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	// Queue more capture requests than the server buffers so the accept loop
	// is parked mid-handoff when Close runs.
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	var conns []net.Conn
	for i := 0; i < 12; i++ {
		c, err := net.DialTimeout("tcp", addr, time.Second)
		if err != nil {
			t.Fatalf("Dial %d failed: %v", i, err)
		}
		conns = append(conns, c)
		if _, err := c.Write([]byte(captureRequest)); err != nil {
			t.Fatalf("Write %d failed: %v", i, err)
		}
	}
	defer func() {
		for _, c := range conns {
			_ = c.Close()
		}
	}()
	time.Sleep(100 * time.Millisecond)

	if err := srv.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Queued requests drain, then Next reports the closed server instead of
	// handing out a nil connection.
	drainCtx, drainCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer drainCancel()
	for {
		conn, err := srv.Next(drainCtx)
		if err != nil {
			break
		}
		if conn == nil {
			t.Fatal("Next returned a nil connection without an error")
		}
		_ = conn.Close()
	}
}

func TestSecondServerRefused(t *testing.T) {
	reservePort(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := NewServer()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Failed to start first server: %v", err)
	}
	defer first.Close()

	second := NewServer()
	if err := second.Start(ctx); err == nil {
		second.Close()
		t.Errorf("Expected second resident to be refused")
	}
}

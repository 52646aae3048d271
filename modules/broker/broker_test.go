package broker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type fakeCaller struct {
	mu      sync.Mutex
	calls   []string
	delay   map[string]time.Duration
	release chan struct{}
	closed  bool
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{delay: map[string]time.Duration{}}
}

func (f *fakeCaller) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	d := f.delay[name]
	release := f.release
	f.mu.Unlock()

	if name == "slow" && release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	switch name {
	case "fail":
		return "", &ToolError{Text: "Error generating image: boom"}
	case "echo":
		v, _ := args["v"].(string)
		return "echo:" + v, nil
	}
	return name + "-ok", nil
}

func (f *fakeCaller) ListTools(context.Context) ([]string, error) {
	return []string{"echo", "fail", "slow", "health_check"}, nil
}

func (f *fakeCaller) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeCaller) callNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func startBroker(t *testing.T, caller Caller, callTimeout time.Duration) (*Broker, context.CancelFunc, chan error) {
	t.Helper()
	b := New(callTimeout)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- b.Run(ctx, func(context.Context) (Caller, error) { return caller, nil })
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !b.IsConnected() {
		if time.Now().After(deadline) {
			t.Fatal("broker did not connect")
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Cleanup(cancel)
	return b, cancel, done
}

func TestSubmitAwait_RoutesByID(t *testing.T) {
	caller := newFakeCaller()
	b, _, _ := startBroker(t, caller, time.Second)

	if err := b.Submit("echo", map[string]any{"v": "a"}, "req_a"); err != nil {
		t.Fatal(err)
	}
	if err := b.Submit("echo", map[string]any{"v": "b"}, "req_b"); err != nil {
		t.Fatal(err)
	}

	// b를 먼저 기다려도 a의 결과를 가져가지 않음
	rb, err := b.Await("req_b", time.Second)
	if err != nil || rb.Payload != "echo:b" || rb.RequestID != "req_b" || !rb.IsSuccess() {
		t.Fatalf("rb=%+v err=%v", rb, err)
	}
	ra, err := b.Await("req_a", time.Second)
	if err != nil || ra.Payload != "echo:a" {
		t.Fatalf("ra=%+v err=%v", ra, err)
	}

	if got := strings.Join(caller.callNames(), ","); got != "health_check,echo,echo" {
		t.Fatalf("calls=%s", got)
	}
	st := b.Stats()
	if st.Submitted != 2 || st.Completed != 2 || st.Pending != 0 {
		t.Fatalf("stats=%+v", st)
	}
}

func TestSubmit_DuplicatePendingID(t *testing.T) {
	b := New(time.Second)
	if err := b.Submit("echo", nil, "dup"); err != nil {
		t.Fatal(err)
	}
	err := b.Submit("echo", nil, "dup")
	if !errors.Is(err, ErrDuplicateRequest) {
		t.Fatalf("err=%v, want ErrDuplicateRequest", err)
	}
}

func TestAwait_TimeoutDiscardsLateResult(t *testing.T) {
	caller := newFakeCaller()
	caller.release = make(chan struct{})
	b, _, _ := startBroker(t, caller, 5*time.Second)

	if err := b.Submit("slow", nil, "late"); err != nil {
		t.Fatal(err)
	}
	res, err := b.Await("late", 30*time.Millisecond)
	if !errors.Is(err, ErrTimeout) || !IsTimeout(err) {
		t.Fatalf("err=%v, want ErrTimeout", err)
	}
	if res.Status != StatusError || res.Payload != "Timeout" {
		t.Fatalf("res=%+v", res)
	}

	// 같은 id 재사용 가능 (슬롯 제거됨)
	close(caller.release)
	if err := b.Submit("echo", map[string]any{"v": "next"}, "next"); err != nil {
		t.Fatal(err)
	}
	next, err := b.Await("next", time.Second)
	if err != nil || next.Payload != "echo:next" {
		t.Fatalf("next=%+v err=%v", next, err)
	}

	st := b.Stats()
	if st.Timeouts != 1 || st.Discarded != 1 {
		t.Fatalf("stats=%+v", st)
	}
}

func TestAwait_UnknownID(t *testing.T) {
	b := New(time.Second)
	if _, err := b.Await("nope", 10*time.Millisecond); !errors.Is(err, ErrUnknownRequest) {
		t.Fatalf("err=%v", err)
	}
}

func TestToolErrorBecomesErrorResult(t *testing.T) {
	b, _, _ := startBroker(t, newFakeCaller(), time.Second)

	res, err := b.Call(context.Background(), "fail", nil, "gen", time.Second)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if res.Status != StatusError || res.Payload != "Error generating image: boom" {
		t.Fatalf("res=%+v", res)
	}
	if !strings.HasPrefix(res.RequestID, "gen_") || len(res.RequestID) != len("gen_")+36 {
		t.Fatalf("request id=%q", res.RequestID)
	}
	if b.Stats().Failed != 1 {
		t.Fatalf("stats=%+v", b.Stats())
	}
}

func TestCallTimeoutBoundsToolCall(t *testing.T) {
	caller := newFakeCaller()
	caller.delay["echo"] = time.Second
	b, _, _ := startBroker(t, caller, 20*time.Millisecond)

	res, err := b.Call(context.Background(), "echo", nil, "x", time.Second)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if res.Status != StatusError || !strings.Contains(res.Payload, "deadline") {
		t.Fatalf("res=%+v", res)
	}
}

func TestStop_DrainsQueuedThenExits(t *testing.T) {
	caller := newFakeCaller()
	b, _, done := startBroker(t, caller, time.Second)

	var events []Event
	var mu sync.Mutex
	b.OnEvent(func(ev Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})

	if err := b.Submit("echo", map[string]any{"v": "last"}, "last"); err != nil {
		t.Fatal(err)
	}
	b.Stop()
	b.Stop()

	if err := b.Submit("echo", nil, "after"); !errors.Is(err, ErrStopped) {
		t.Fatalf("submit after stop err=%v", err)
	}

	res, err := b.Await("last", time.Second)
	if err != nil || res.Payload != "echo:last" {
		t.Fatalf("queued request before stop should complete: %+v %v", res, err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not exit after Stop")
	}
	if b.IsConnected() {
		t.Fatal("broker should be disconnected after stop")
	}
	caller.mu.Lock()
	closed := caller.closed
	caller.mu.Unlock()
	if !closed {
		t.Fatal("caller should be closed")
	}

	mu.Lock()
	defer mu.Unlock()
	var sawResult, sawDisconnect bool
	for _, ev := range events {
		if ev.Type == EventResult && ev.RequestID == "last" {
			sawResult = true
		}
		if ev.Type == EventConnection && !ev.Connected {
			sawDisconnect = true
		}
	}
	if !sawResult || !sawDisconnect {
		t.Fatalf("events=%+v", events)
	}
}

func TestCancelFailsPendingRequests(t *testing.T) {
	caller := newFakeCaller()
	caller.release = make(chan struct{})
	b, cancel, done := startBroker(t, caller, 5*time.Second)

	b.Submit("slow", nil, "s1")
	b.Submit("echo", nil, "s2")
	cancel()
	<-done

	res, err := b.Await("s2", time.Second)
	if err != nil || res.Status != StatusError || res.Payload != ErrStopped.Error() {
		t.Fatalf("res=%+v err=%v", res, err)
	}
	// s1은 실행 중 취소됨
	res, err = b.Await("s1", time.Second)
	if err != nil || res.Status != StatusError {
		t.Fatalf("s1 res=%+v err=%v", res, err)
	}
	if b.Stats().Pending != 0 {
		t.Fatalf("stats=%+v", b.Stats())
	}
}

func TestAwait_ResultArrivedBeforeWait(t *testing.T) {
	caller := newFakeCaller()
	b, _, _ := startBroker(t, caller, time.Second)

	if err := b.Submit("echo", map[string]any{"v": "early"}, "early"); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(time.Second)
	for b.Stats().Completed != 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)

	if st := b.Stats(); st.Completed != 1 || st.Pending != 1 {
		t.Fatalf("result should wait in its slot: %+v", st)
	}

	res, err := b.Await("early", time.Second)
	if err != nil || res.Payload != "echo:early" || !res.IsSuccess() {
		t.Fatalf("res=%+v err=%v", res, err)
	}
	st := b.Stats()
	if st.Pending != 0 || st.Discarded != 0 {
		t.Fatalf("stats=%+v", st)
	}
	if _, err := b.Await("early", 10*time.Millisecond); !errors.Is(err, ErrUnknownRequest) {
		t.Fatalf("second await err=%v", err)
	}
}

func TestMCPCaller_InProcess(t *testing.T) {
	srv := server.NewMCPServer("test-tools", "0.0.1", server.WithToolCapabilities(false))
	srv.AddTool(mcp.NewTool("shout", mcp.WithString("text", mcp.Required())),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			text, err := req.RequireString("text")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText(strings.ToUpper(text)), nil
		})

	ctx := context.Background()
	c, err := client.NewInProcessClient(srv)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Start(ctx); err != nil {
		t.Fatal(err)
	}
	caller, err := NewMCPCallerFromClient(ctx, c)
	if err != nil {
		t.Fatal(err)
	}
	defer caller.Close()

	tools, err := caller.ListTools(ctx)
	if err != nil || len(tools) != 1 || tools[0] != "shout" {
		t.Fatalf("tools=%v err=%v", tools, err)
	}

	out, err := caller.CallTool(ctx, "shout", map[string]any{"text": "sale"})
	if err != nil || out != "SALE" {
		t.Fatalf("out=%q err=%v", out, err)
	}

	_, err = caller.CallTool(ctx, "shout", map[string]any{})
	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Text == "" {
		t.Fatalf("err=%v, want *ToolError", err)
	}
}

func TestRun_ConnectError(t *testing.T) {
	b := New(time.Second)
	err := b.Run(context.Background(), func(context.Context) (Caller, error) {
		return nil, errors.New("exec: not found")
	})
	if err == nil || b.IsConnected() {
		t.Fatalf("err=%v connected=%v", err, b.IsConnected())
	}
	if len(b.Tools()) != 0 {
		t.Fatalf("tools=%v", b.Tools())
	}
}

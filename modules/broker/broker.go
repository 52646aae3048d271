package broker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ConnectFunc - 툴 서버 연결 생성
type ConnectFunc func(ctx context.Context) (Caller, error)

// Broker - UI 요청을 FIFO 큐로 툴 서버에 전달하고 요청 id별 단일 슬롯으로 결과를 돌려줌
// 큐 소비자는 Run 하나뿐이라 툴 호출은 한 번에 하나씩 실행됨
type Broker struct {
	callTimeout time.Duration

	mu      sync.Mutex
	queue   []request
	pending map[string]chan Result
	tools   []string
	stopped bool

	wake      chan struct{}
	connected atomic.Bool

	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	timeouts  atomic.Int64
	discarded atomic.Int64

	listenerMu sync.RWMutex
	listeners  []func(Event)
}

// New - callTimeout 은 툴 호출 하나의 상한 (0 이하면 무제한)
func New(callTimeout time.Duration) *Broker {
	return &Broker{
		callTimeout: callTimeout,
		pending:     make(map[string]chan Result),
		wake:        make(chan struct{}, 1),
	}
}

// OnEvent - 이벤트 리스너 등록 (웹소켓 허브)
func (b *Broker) OnEvent(fn func(Event)) {
	b.listenerMu.Lock()
	defer b.listenerMu.Unlock()
	b.listeners = append(b.listeners, fn)
}

func (b *Broker) emit(ev Event) {
	ev.Time = time.Now()
	ev.Connected = b.connected.Load()

	b.listenerMu.RLock()
	defer b.listenerMu.RUnlock()
	for _, fn := range b.listeners {
		fn(ev)
	}
}

// Run - 연결 후 큐를 하나씩 소비. Stop 또는 ctx 종료 시 반환
func (b *Broker) Run(ctx context.Context, connect ConnectFunc) error {
	log.Println("🔄 [Broker] Connecting to tool server...")

	caller, err := connect(ctx)
	if err != nil {
		log.Printf("❌ [Broker] Connection failed: %v", err)
		b.emit(Event{Type: EventConnection, Status: StatusError, Message: err.Error()})
		return fmt.Errorf("connect: %w", err)
	}
	defer caller.Close()

	tools, err := caller.ListTools(ctx)
	if err != nil {
		log.Printf("❌ [Broker] Failed to list tools: %v", err)
		b.emit(Event{Type: EventConnection, Status: StatusError, Message: err.Error()})
		return err
	}

	b.mu.Lock()
	b.tools = tools
	b.mu.Unlock()
	b.connected.Store(true)

	log.Printf("✅ [Broker] Connected to MCP server with %d tools: %v", len(tools), tools)
	b.emit(Event{Type: EventConnection, Status: StatusSuccess, Message: fmt.Sprintf("%d tools available", len(tools))})

	if health, err := b.invoke(ctx, caller, "health_check", nil); err != nil {
		log.Printf("⚠️  [Broker] Health check failed: %v", err)
	} else {
		log.Printf("🩺 [Broker] Health check: %s", health)
	}

	defer b.shutdown()

	for {
		req, ok := b.next(ctx)
		if !ok || req.stop {
			log.Println("🛑 [Broker] Stopping request loop")
			return nil
		}
		b.process(ctx, caller, req)
	}
}

// next - 큐 맨 앞 항목을 꺼냄. 비어 있으면 대기
func (b *Broker) next(ctx context.Context) (request, bool) {
	for {
		if ctx.Err() != nil {
			return request{}, false
		}
		b.mu.Lock()
		if len(b.queue) > 0 {
			req := b.queue[0]
			b.queue[0] = request{}
			b.queue = b.queue[1:]
			b.mu.Unlock()
			return req, true
		}
		b.mu.Unlock()

		select {
		case <-ctx.Done():
			return request{}, false
		case <-b.wake:
		}
	}
}

func (b *Broker) process(ctx context.Context, caller Caller, req request) {
	log.Printf("📨 [Broker] Processing %s (%s)", req.tool, req.id)
	b.emit(Event{Type: EventRequest, RequestID: req.id, Tool: req.tool, Status: "processing"})

	payload, err := b.invoke(ctx, caller, req.tool, req.args)

	result := Result{RequestID: req.id, Status: StatusSuccess, Payload: payload}
	if err != nil {
		log.Printf("❌ [Broker] %s failed: %v", req.tool, err)
		result.Status = StatusError
		result.Payload = err.Error()
		b.failed.Add(1)
	} else {
		b.completed.Add(1)
	}

	b.deliver(result)
	b.emit(Event{Type: EventResult, RequestID: req.id, Tool: req.tool, Status: result.Status})
}

func (b *Broker) invoke(ctx context.Context, caller Caller, tool string, args map[string]any) (string, error) {
	if b.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.callTimeout)
		defer cancel()
	}
	return caller.CallTool(ctx, tool, args)
}

// deliver - 해당 id 슬롯에만 결과를 넣음. 항목 삭제는 Await(release)만 함
// 슬롯이 없으면(타임아웃 후) 버림
func (b *Broker) deliver(result Result) {
	b.mu.Lock()
	slot, ok := b.pending[result.RequestID]
	if ok {
		select {
		case slot <- result:
		default:
			ok = false
		}
	}
	b.mu.Unlock()

	if !ok {
		b.discarded.Add(1)
		log.Printf("🗑️  [Broker] Discarding late result for %s", result.RequestID)
	}
}

// shutdown - 남은 대기 요청에 중단 결과 전달 (슬롯은 Await가 회수)
func (b *Broker) shutdown() {
	b.connected.Store(false)

	b.mu.Lock()
	b.stopped = true
	b.queue = nil
	for id, slot := range b.pending {
		select {
		case slot <- Result{RequestID: id, Status: StatusError, Payload: ErrStopped.Error()}:
		default:
		}
	}
	b.mu.Unlock()

	b.emit(Event{Type: EventConnection, Status: StatusError, Message: "disconnected"})
}

// Submit - 요청을 큐에 넣고 requestID 슬롯 생성
func (b *Broker) Submit(tool string, args map[string]any, requestID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return ErrStopped
	}
	if _, exists := b.pending[requestID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRequest, requestID)
	}

	b.pending[requestID] = make(chan Result, 1)
	b.queue = append(b.queue, request{id: requestID, tool: tool, args: args})
	b.submitted.Add(1)
	b.signal()
	return nil
}

func (b *Broker) signal() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Await - requestID 결과만 기다림. 타임아웃이면 슬롯을 지우고 Timeout 결과 반환
func (b *Broker) Await(requestID string, timeout time.Duration) (Result, error) {
	return b.await(context.Background(), requestID, timeout)
}

func (b *Broker) await(ctx context.Context, requestID string, timeout time.Duration) (Result, error) {
	b.mu.Lock()
	slot, ok := b.pending[requestID]
	b.mu.Unlock()
	if !ok {
		return Result{RequestID: requestID, Status: StatusError, Payload: ErrUnknownRequest.Error()}, ErrUnknownRequest
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var cause error
	select {
	case res := <-slot:
		b.release(requestID, slot)
		return res, nil
	case <-timer.C:
		cause = ErrTimeout
	case <-ctx.Done():
		cause = ctx.Err()
	}

	b.release(requestID, slot)

	// 삭제 직전에 도착한 결과
	select {
	case res := <-slot:
		return res, nil
	default:
	}

	b.timeouts.Add(1)
	log.Printf("⏰ [Broker] Request %s gave up waiting: %v", requestID, cause)
	return Result{RequestID: requestID, Status: StatusError, Payload: ErrTimeout.Error()}, cause
}

func (b *Broker) release(requestID string, slot chan Result) {
	b.mu.Lock()
	if b.pending[requestID] == slot {
		delete(b.pending, requestID)
	}
	b.mu.Unlock()
}

// Call - "<prefix>_<uuid>" id로 제출 후 결과 대기
func (b *Broker) Call(ctx context.Context, tool string, args map[string]any, prefix string, timeout time.Duration) (Result, error) {
	requestID := fmt.Sprintf("%s_%s", prefix, uuid.NewString())
	if err := b.Submit(tool, args, requestID); err != nil {
		return Result{RequestID: requestID, Status: StatusError, Payload: err.Error()}, err
	}
	return b.await(ctx, requestID, timeout)
}

// Stop - 큐 끝에 중단 표시 (앞선 요청은 처리됨). 여러 번 호출해도 안전
func (b *Broker) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return
	}
	b.stopped = true
	b.queue = append(b.queue, request{stop: true})
	b.signal()
}

func (b *Broker) IsConnected() bool {
	return b.connected.Load()
}

// Tools - 연결 시 받은 툴 목록
func (b *Broker) Tools() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.tools...)
}

func (b *Broker) Stats() Stats {
	b.mu.Lock()
	pending, queued := len(b.pending), len(b.queue)
	b.mu.Unlock()

	return Stats{
		Submitted: b.submitted.Load(),
		Completed: b.completed.Load(),
		Failed:    b.failed.Load(),
		Timeouts:  b.timeouts.Load(),
		Discarded: b.discarded.Load(),
		Pending:   pending,
		Queued:    queued,
	}
}

// IsTimeout - Await/Call 에러가 타임아웃인지
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}

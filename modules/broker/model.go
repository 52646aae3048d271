package broker

import (
	"errors"
	"time"
)

// 결과 상태
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// 이벤트 타입 (웹소켓 허브로 전달)
const (
	EventConnection = "connection"
	EventRequest    = "request"
	EventResult     = "result"
)

var (
	ErrTimeout          = errors.New("Timeout")
	ErrNotConnected     = errors.New("tool server not connected")
	ErrDuplicateRequest = errors.New("request id already pending")
	ErrUnknownRequest   = errors.New("unknown request id")
	ErrStopped          = errors.New("broker stopped")
)

// Result - 요청 하나의 결과
type Result struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Payload   string `json:"payload"`
}

// IsSuccess - status == success
func (r Result) IsSuccess() bool {
	return r.Status == StatusSuccess
}

// Event - 연결 상태 / 요청 진행 이벤트
type Event struct {
	Type      string    `json:"type"`
	Connected bool      `json:"connected"`
	RequestID string    `json:"request_id,omitempty"`
	Tool      string    `json:"tool,omitempty"`
	Status    string    `json:"status,omitempty"`
	Message   string    `json:"message,omitempty"`
	Time      time.Time `json:"time"`
}

// Stats - 브로커 카운터
type Stats struct {
	Submitted int64 `json:"submitted"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
	Timeouts  int64 `json:"timeouts"`
	Discarded int64 `json:"discarded"`
	Pending   int   `json:"pending"`
	Queued    int   `json:"queued"`
}

// request - FIFO 큐 항목
type request struct {
	id   string
	tool string
	args map[string]any
	stop bool
}

package audit

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"sepagateway/kit/broker"
	"sepagateway/kit/observability"
)

// Entry is one line of the JSONL audit trail.
type Entry struct {
	At           time.Time       `json:"at"`
	Event        string          `json:"event"`
	PartitionKey string          `json:"partition_key,omitempty"`
	Payload      json.RawMessage `json:"payload"`
}

type partitioned interface {
	PartitionKey() string
}

// Service keeps an append-only trail of mandate and payment lifecycle events.
type Service struct {
	logger *observability.Logger
	fileMu sync.Mutex
	f      *os.File
}

func NewService(logger *observability.Logger) *Service {
	return &Service{logger: logger}
}

func NewServiceWithFile(logger *observability.Logger, path string) (*Service, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		if logger != nil {
			logger.Error("audit error", "layer", "service", "component", "audit", "method", "NewServiceWithFile", "path", path, "error", err.Error())
		}
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		if logger != nil {
			logger.Error("audit error", "layer", "service", "component", "audit", "method", "NewServiceWithFile", "path", path, "error", err.Error())
		}
		return nil, err
	}
	return &Service{logger: logger, f: f}, nil
}

func (s *Service) Close() error {
	s.fileMu.Lock()
	defer s.fileMu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	if err != nil && s.logger != nil {
		s.logger.Error("audit error", "layer", "service", "component", "audit", "method", "Close", "error", err.Error())
	}
	s.f = nil
	return err
}

func (s *Service) Record(ctx context.Context, evt broker.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("audit error", "layer", "service", "component", "audit", "method", "Record", "event", evt.Name(), "error", err.Error())
		}
		return err
	}

	entry := Entry{At: time.Now().UTC(), Event: evt.Name(), Payload: payload}
	if p, ok := evt.(partitioned); ok {
		entry.PartitionKey = p.PartitionKey()
	}
	if s.logger != nil {
		s.logger.Info("audit", "event", entry.Event, "key", entry.PartitionKey)
	}

	s.fileMu.Lock()
	defer s.fileMu.Unlock()
	if s.f == nil {
		return nil
	}
	b, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if _, err := s.f.Write(append(b, '\n')); err != nil {
		if s.logger != nil {
			s.logger.Error("audit error", "layer", "service", "component", "audit", "method", "Record", "event", entry.Event, "error", err.Error())
		}
		return err
	}
	return nil
}

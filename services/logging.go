package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"gridduel-backend/algorithms"
	"gridduel-backend/models"
)

// LogSink - persists a batch of movement logs
type LogSink interface {
	SaveLogs(logs []models.MoveLog) error
}

// LogBuffer - batches movement logs, flushed by size or interval
type LogBuffer struct {
	logs      []models.MoveLog
	mu        sync.Mutex
	sink      LogSink
	flushSize int           // flush as soon as this many logs are queued
	flushTime time.Duration // flush at least this often

	stopChan chan bool
	done     chan struct{}
	started  bool
}

// NewLogBuffer - buffer writing to sink; call Start for interval flushing
func NewLogBuffer(sink LogSink, flushSize int, flushInterval time.Duration) *LogBuffer {
	if flushSize <= 0 {
		flushSize = 50
	}
	return &LogBuffer{
		logs:      make([]models.MoveLog, 0, flushSize*2),
		sink:      sink,
		flushSize: flushSize,
		flushTime: flushInterval,
	}
}

// Start - launch the interval flusher; the buffer may be restarted after Stop
func (lb *LogBuffer) Start() {
	lb.mu.Lock()
	if lb.started || lb.flushTime <= 0 {
		lb.mu.Unlock()
		return
	}
	lb.started = true
	lb.stopChan = make(chan bool)
	lb.done = make(chan struct{})
	stop, done := lb.stopChan, lb.done
	lb.mu.Unlock()

	go lb.autoFlush(stop, done)
	log.Printf("✅ Log buffer started (flushSize: %d, flushInterval: %v)", lb.flushSize, lb.flushTime)
}

// autoFlush - periodic flush until Stop
func (lb *LogBuffer) autoFlush(stop <-chan bool, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(lb.flushTime)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lb.Flush()
		case <-stop:
			lb.Flush()
			return
		}
	}
}

// Add - queue a log, flushing in the background once the buffer is full
func (lb *LogBuffer) Add(entry models.MoveLog) {
	if lb == nil {
		return
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	lb.mu.Lock()
	lb.logs = append(lb.logs, entry)
	size := len(lb.logs)
	lb.mu.Unlock()

	if size >= lb.flushSize {
		go lb.Flush()
	}
}

// Pending - logs waiting for the next flush
func (lb *LogBuffer) Pending() int {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return len(lb.logs)
}

// Flush - hand every queued log to the sink
func (lb *LogBuffer) Flush() {
	lb.mu.Lock()
	if len(lb.logs) == 0 {
		lb.mu.Unlock()
		return
	}
	logsToSave := make([]models.MoveLog, len(lb.logs))
	copy(logsToSave, lb.logs)
	lb.logs = lb.logs[:0]
	lb.mu.Unlock()

	if lb.sink == nil {
		return
	}
	if err := lb.sink.SaveLogs(logsToSave); err != nil {
		log.Printf("❌ Failed to save logs: %v", err)
		return
	}
	log.Printf("💾 Saved %d logs", len(logsToSave))
}

// Stop - stop the flusher and save whatever is left
func (lb *LogBuffer) Stop() {
	lb.mu.Lock()
	started := lb.started
	lb.started = false
	stop, done := lb.stopChan, lb.done
	lb.mu.Unlock()

	if !started {
		lb.Flush()
		return
	}
	stop <- true
	<-done
	log.Println("🛑 Log buffer stopped")
}

// MoveLogFromEvent - log row for a coordinator event
func MoveLogFromEvent(sessionID string, ev TurnEvent, speed float64) models.MoveLog {
	entry := models.MoveLog{
		CreatedAt: time.Now(),
		SessionID: sessionID,
		EventType: ev.Type,
		Agent:     string(ev.Agent),
		FromX:     ev.From.X,
		FromZ:     ev.From.Z,
		TargetX:   ev.Target.X,
		TargetZ:   ev.Target.Z,
		Speed:     speed,
		Turn:      ev.Turn,
	}
	if len(ev.Path) > 0 {
		entry.PathLength = len(ev.Path) - 1
		if data, err := json.Marshal(algorithms.PathPairs(ev.Path)); err == nil {
			entry.DataJSON = string(data)
		}
	}
	return entry
}

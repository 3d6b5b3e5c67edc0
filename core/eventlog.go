package core

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"markenz/core/canon"
	"markenz/core/digest"
)

// EventLog is an append-only, write-once file of InputEvents (spec §4.4:
// "in-process variant... write-once tape"), using an open-replay-append
// idiom: on open, every existing record is replayed through onReplay so
// callers can rebuild in-memory chain state, then new events are appended
// as they're produced.
type EventLog struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// each on-disk record is a u32 length prefix followed by that many bytes of
// canonical InputEvent encoding (tick, source, sequence, payload, prev-hash)
// plus the event's own 32-byte hash, in that order.
func encodeRecord(ev InputEvent) []byte {
	body := ev.Encode()
	out := make([]byte, 4+len(body)+digest.Size)
	binary.LittleEndian.PutUint32(out[:4], uint32(len(body)))
	copy(out[4:], body)
	copy(out[4+len(body):], ev.Hash.Bytes())
	return out
}

// OpenEventLog opens (creating if absent) the WAL at path and replays every
// record currently in it through onReplay, in order. Replay failures halt
// opening — a corrupt or truncated chain must never be silently accepted
// (spec §4.6 "fail closed").
func OpenEventLog(path string, onReplay func(InputEvent) error) (*EventLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("eventlog: open %s: %w", path, err)
	}

	reader, err := os.Open(path)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("eventlog: reopen %s for replay: %w", path, err)
	}
	defer reader.Close()

	br := bufio.NewReader(reader)
	count := 0
	for {
		ev, ok, err := readRecord(br)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("eventlog: replay %s at record %d: %w", path, count, err)
		}
		if !ok {
			break
		}
		if onReplay != nil {
			if err := onReplay(ev); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("eventlog: replay callback at record %d: %w", count, err)
			}
		}
		count++
	}
	logrus.WithFields(logrus.Fields{"path": path, "records": count}).Info("eventlog: replay complete")

	return &EventLog{path: path, file: f}, nil
}

func readRecord(br *bufio.Reader) (InputEvent, bool, error) {
	var lenBuf [4]byte
	if _, err := br.Peek(1); err != nil {
		return InputEvent{}, false, nil // clean EOF
	}
	if _, err := readFull(br, lenBuf[:]); err != nil {
		return InputEvent{}, false, fmt.Errorf("read length prefix: %w", err)
	}
	bodyLen := binary.LittleEndian.Uint32(lenBuf[:])
	body := make([]byte, bodyLen)
	if _, err := readFull(br, body); err != nil {
		return InputEvent{}, false, fmt.Errorf("read body: %w", err)
	}
	var hashBuf [digest.Size]byte
	if _, err := readFull(br, hashBuf[:]); err != nil {
		return InputEvent{}, false, fmt.Errorf("read hash: %w", err)
	}

	ev, err := decodeEventBody(body)
	if err != nil {
		return InputEvent{}, false, fmt.Errorf("decode body: %w", err)
	}
	ev.Hash = digest.Hash(hashBuf)
	if !ev.VerifyIntegrity() {
		return InputEvent{}, false, fmt.Errorf("stored hash does not match recomputed hash for tick %d seq %d", ev.Tick, ev.Sequence)
	}
	return ev, true, nil
}

func readFull(br *bufio.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		k, err := br.Read(buf[n:])
		n += k
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func decodeEventBody(body []byte) (InputEvent, error) {
	d := canon.NewDecoder(body)
	tick := d.U64()
	source := d.U64()
	seq := d.U64()
	payload := decodePayload(d)
	prevHash := d.Hash()
	if d.Err() != nil {
		return InputEvent{}, d.Err()
	}
	return InputEvent{
		Tick:          tick,
		SourceAgentID: source,
		Sequence:      seq,
		Payload:       payload,
		PrevHash:      digest.Hash(prevHash),
	}, nil
}

// Append writes ev to the tail of the log. Callers are expected to have
// already validated and chain-linked ev; EventLog itself never re-derives
// or re-orders anything, matching the event log's role as a pure append
// target (spec §4.4).
func (l *EventLog) Append(ev InputEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.file.Write(encodeRecord(ev)); err != nil {
		return fmt.Errorf("eventlog: append: %w", err)
	}
	return l.file.Sync()
}

// Close releases the underlying file handle.
func (l *EventLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

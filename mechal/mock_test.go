package mechal

import (
	"testing"
	"time"
)

type regOp struct {
	write bool
	addr  uint32
	value uint32
}

/* mockPort records all register traffic. Reads pop a scripted queue
 * per address first and fall back to a sticky register value (zero by
 * default, which reads as an idle, error-free status). */
type mockPort struct {
	ops   []regOp
	queue map[uint32][]uint32
	regs  map[uint32]uint32

	readErr  error
	writeErr error
}

func newMockPort() *mockPort {
	return &mockPort{
		queue: make(map[uint32][]uint32),
		regs:  make(map[uint32]uint32),
	}
}

func (m *mockPort) ReadMem32(addr uint32) (uint32, error) {
	if m.readErr != nil {
		return 0, m.readErr
	}

	value := m.regs[addr]
	if q := m.queue[addr]; len(q) > 0 {
		value = q[0]
		m.queue[addr] = q[1:]
	}

	m.ops = append(m.ops, regOp{write: false, addr: addr, value: value})
	return value, nil
}

func (m *mockPort) WriteMem32(addr uint32, value uint32) error {
	if m.writeErr != nil {
		return m.writeErr
	}

	m.ops = append(m.ops, regOp{write: true, addr: addr, value: value})
	return nil
}

func (m *mockPort) push(addr uint32, values ...uint32) {
	m.queue[addr] = append(m.queue[addr], values...)
}

func (m *mockPort) writes() []regOp {
	var out []regOp
	for _, op := range m.ops {
		if op.write {
			out = append(out, op)
		}
	}
	return out
}

func (m *mockPort) writesTo(addr uint32) []uint32 {
	var out []uint32
	for _, op := range m.ops {
		if op.write && op.addr == addr {
			out = append(out, op.value)
		}
	}
	return out
}

func newTestHal(t *testing.T, port *mockPort) *MECHal {
	t.Helper()

	hal, err := New(port, Config{
		FirmwareSize: FirmwareSize192K,
		PollTimeout:  50 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	return hal
}

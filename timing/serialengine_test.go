package timing

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type recordingHandler struct {
	engine  *SerialEngine
	handled []string
	fail    string
}

type namedEvent struct {
	*EventBase
	name string
}

func (h *recordingHandler) Handle(e Event) error {
	evt := e.(namedEvent)
	h.handled = append(h.handled, evt.name)

	if evt.name == h.fail {
		return errors.New("failed on " + evt.name)
	}

	if evt.name == "spawn" {
		h.engine.Schedule(namedEvent{
			EventBase: NewEventBase(h.engine.Now()+10, h),
			name:      "spawned",
		})
	}

	return nil
}

var _ = Describe("SerialEngine", func() {
	var (
		engine  *SerialEngine
		handler *recordingHandler
	)

	schedule := func(t Tick, name string, secondary bool) {
		base := NewEventBase(t, handler)
		if secondary {
			base = NewSecondaryEventBase(t, handler)
		}

		engine.Schedule(namedEvent{EventBase: base, name: name})
	}

	BeforeEach(func() {
		engine = NewSerialEngine()
		handler = &recordingHandler{engine: engine}
	})

	It("should handle events in time order", func() {
		schedule(30, "c", false)
		schedule(10, "a", false)
		schedule(20, "b", false)

		Expect(engine.Run()).To(Succeed())

		Expect(handler.handled).To(Equal([]string{"a", "b", "c"}))
		Expect(engine.Now()).To(Equal(Tick(30)))
	})

	It("should keep insertion order for same-time events", func() {
		schedule(10, "first", false)
		schedule(10, "second", false)
		schedule(10, "third", false)

		Expect(engine.Run()).To(Succeed())

		Expect(handler.handled).To(Equal([]string{"first", "second", "third"}))
	})

	It("should handle secondary events after primary events", func() {
		schedule(10, "secondary", true)
		schedule(10, "primary", false)
		schedule(5, "early", false)

		Expect(engine.Run()).To(Succeed())

		Expect(handler.handled).To(Equal(
			[]string{"early", "primary", "secondary"}))
	})

	It("should run events scheduled by handlers", func() {
		schedule(0, "spawn", false)

		Expect(engine.Run()).To(Succeed())

		Expect(handler.handled).To(Equal([]string{"spawn", "spawned"}))
		Expect(engine.Now()).To(Equal(Tick(10)))
	})

	It("should stop on handler errors", func() {
		handler.fail = "a"
		schedule(10, "a", false)
		schedule(20, "b", false)

		Expect(engine.Run()).To(MatchError("failed on a"))
		Expect(handler.handled).To(Equal([]string{"a"}))
	})

	It("should panic when scheduling an event in the past", func() {
		schedule(0, "spawn", false)
		Expect(engine.Run()).To(Succeed())

		Expect(func() { schedule(5, "late", false) }).To(Panic())
	})
})

package panel

// Lifecycle is the set of hooks a host calls as its panel is attached,
// saved, loaded and torn down. Session implements it.
type Lifecycle interface {
	OnAttach(a Attachment) error
	OnSerialize(doc HostDocument) error
	OnRestore(doc HostDocument) error
	OnDetach()
}

var _ Lifecycle = (*Session)(nil)

// Chain composes hooks by delegation: attach, serialize and restore run in
// order and stop at the first error; detach runs in reverse order so the last
// attached hook is torn down first.
type Chain []Lifecycle

func (c Chain) OnAttach(a Attachment) error {
	for _, h := range c {
		if err := h.OnAttach(a); err != nil {
			return err
		}
	}
	return nil
}

func (c Chain) OnSerialize(doc HostDocument) error {
	for _, h := range c {
		if err := h.OnSerialize(doc); err != nil {
			return err
		}
	}
	return nil
}

func (c Chain) OnRestore(doc HostDocument) error {
	for _, h := range c {
		if err := h.OnRestore(doc); err != nil {
			return err
		}
	}
	return nil
}

func (c Chain) OnDetach() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i].OnDetach()
	}
}

// Hooks adapts plain functions to Lifecycle so a host can put its own logic
// in a Chain next to the session. Nil functions are skipped.
type Hooks struct {
	Attach    func(Attachment) error
	Serialize func(HostDocument) error
	Restore   func(HostDocument) error
	Detach    func()
}

func (h Hooks) OnAttach(a Attachment) error {
	if h.Attach == nil {
		return nil
	}
	return h.Attach(a)
}

func (h Hooks) OnSerialize(doc HostDocument) error {
	if h.Serialize == nil {
		return nil
	}
	return h.Serialize(doc)
}

func (h Hooks) OnRestore(doc HostDocument) error {
	if h.Restore == nil {
		return nil
	}
	return h.Restore(doc)
}

func (h Hooks) OnDetach() {
	if h.Detach != nil {
		h.Detach()
	}
}

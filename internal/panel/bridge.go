package panel

import (
	"sync"
	"time"

	"lightd/internal/clock"
	"lightd/internal/fields"
	"lightd/pkg/types"
)

// DefaultSettleDelay is how long apply waits for the field widgets to settle
// before the surface is told about the new values.
const DefaultSettleDelay = 50 * time.Millisecond

// bridge moves values between the live field set and a ParameterRecord.
// Its timer state is guarded by lock (the session mutex).
type bridge struct {
	fields fields.FieldSet
	clock  clock.Clock
	delay  time.Duration
	lock   sync.Locker
	// settle runs with lock held once the delay after the last apply expires.
	settle func()

	timer   clock.Timer
	gen     uint64
	stopped bool
}

// capture reads every record field from the live set. Fields that are absent
// or hold an unusable value keep prior's value.
func (b *bridge) capture(prior types.ParameterRecord) types.ParameterRecord {
	rec := prior
	if v, ok := fields.Float(b.fields, fields.Azimuth); ok {
		rec.Azimuth = v
	}
	if v, ok := fields.Float(b.fields, fields.Elevation); ok {
		rec.Elevation = v
	}
	if v, ok := fields.Float(b.fields, fields.Intensity); ok {
		rec.Intensity = v
	}
	if v, ok := fields.String(b.fields, fields.ColorHex); ok {
		rec.ColorHex = v
	}
	return rec
}

// apply writes rec into the live fields and re-arms the settle timer, so a
// series of applies produces a single push.
func (b *bridge) apply(rec types.ParameterRecord) {
	b.fields.Set(fields.Azimuth, rec.Azimuth)
	b.fields.Set(fields.Elevation, rec.Elevation)
	b.fields.Set(fields.Intensity, rec.Intensity)
	b.fields.Set(fields.ColorHex, rec.ColorHex)
	b.arm()
}

func (b *bridge) arm() {
	if b.stopped {
		return
	}
	if b.timer != nil {
		b.timer.Stop()
	}
	b.gen++
	gen := b.gen
	b.timer = b.clock.AfterFunc(b.delay, func() {
		b.lock.Lock()
		defer b.lock.Unlock()
		if b.stopped || gen != b.gen {
			return
		}
		b.timer = nil
		b.settle()
	})
}

func (b *bridge) pending() bool { return b.timer != nil }

// cancel stops the settle timer for good.
func (b *bridge) cancel() {
	b.stopped = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/mailpilot/internal/api"
	"github.com/nhle/mailpilot/internal/credential"
	"github.com/nhle/mailpilot/internal/model"
)

// DefaultNotificationTTL is how long a notification stays up unless
// configured otherwise.
const DefaultNotificationTTL = 5 * time.Second

// Backend is the remote API the controller talks to. *api.Client
// implements it.
type Backend interface {
	SetToken(token string)
	Me(ctx context.Context) (*model.User, error)
	Persona(ctx context.Context) (string, error)
	SavePersona(ctx context.Context, persona string) error
	Inbox(ctx context.Context) ([]model.EmailHeader, error)
	Email(ctx context.Context, id string) (*model.EmailContent, error)
	SummarizeText(ctx context.Context, text string) (string, error)
	SummarizeAttachment(ctx context.Context, messageID string, att model.Attachment) (string, error)
	SummarizeThread(ctx context.Context, threadID string) (string, error)
	GenerateReply(ctx context.Context, prompt string) (string, error)
	Send(ctx context.Context, req api.SendRequest) error
	CreateEvent(ctx context.Context, req api.EventRequest) (string, error)
}

var _ Backend = (*api.Client)(nil)

// Recorder receives notifications and analyses for the local history.
// It is write-only: nothing recorded is read back into the dashboard.
type Recorder interface {
	RecordNotification(ctx context.Context, n model.Notification) error
	RecordAnalysis(ctx context.Context, messageID string, a model.AIAnalysis) error
}

// Option configures a Controller.
type Option func(*Controller)

// WithRecorder records notifications and analyses to r.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithLogger sets the controller's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithNotificationTTL sets how long a notification stays up.
func WithNotificationTTL(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// Controller owns the dashboard state. Events are applied one at a time on
// a single goroutine; effects run concurrently and report back as events.
type Controller struct {
	backend  Backend
	creds    credential.Store
	recorder Recorder
	log      zerolog.Logger
	ttl      time.Duration

	events  chan Event
	updates chan State
	done    chan struct{}

	ctx       context.Context
	cancel    context.CancelFunc
	inflight  sync.WaitGroup
	closeOnce sync.Once

	mu    sync.RWMutex
	state State
}

// New starts a controller. Call Close to stop it.
func New(backend Backend, creds credential.Store, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		backend: backend,
		creds:   creds,
		log:     zerolog.Nop(),
		ttl:     DefaultNotificationTTL,
		events:  make(chan Event, 64),
		updates: make(chan State, 1),
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.run()
	return c
}

// Dispatch queues an event. It never blocks once the controller is closed.
func (c *Controller) Dispatch(e Event) {
	select {
	case c.events <- e:
	case <-c.ctx.Done():
	}
}

// State returns the latest state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Updates delivers a snapshot after every applied event. Only the newest
// unread snapshot is kept. The channel is closed by Close.
func (c *Controller) Updates() <-chan State {
	return c.updates
}

// Close cancels in-flight requests, stops the notification timer and waits
// for every goroutine the controller started.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		<-c.done
	})
}

func (c *Controller) run() {
	var (
		expiry   *time.Timer
		expiryC  <-chan time.Time
		expiryID string
	)

	defer func() {
		if expiry != nil {
			expiry.Stop()
		}
		c.inflight.Wait()
		close(c.updates)
		close(c.done)
	}()

	for {
		var e Event
		select {
		case <-c.ctx.Done():
			return
		case e = <-c.events:
		case <-expiryC:
			expiryC = nil
			e = NotificationExpired{ID: expiryID}
		}

		for _, eff := range c.apply(e) {
			if se, ok := eff.(scheduleExpiry); ok {
				if expiry != nil {
					expiry.Stop()
				}
				expiry = time.NewTimer(c.ttl)
				expiryC = expiry.C
				expiryID = se.id
				continue
			}
			c.start(eff)
		}
	}
}

// apply reduces one event into the state and publishes the result.
func (c *Controller) apply(e Event) []Effect {
	c.mu.Lock()
	prev := c.state
	next, effects := Reduce(prev, e)
	c.state = next
	c.mu.Unlock()

	switch ev := e.(type) {
	case ResolveSession:
		if prev.resolveStarted {
			c.log.Warn().Msg("session already resolved, ignoring")
		}
	case completion:
		if slot, seq := ev.settles(); !prev.current(slot, seq) {
			c.log.Debug().
				Str("slot", slot.String()).
				Uint64("seq", seq).
				Uint64("latest", prev.Seq(slot)).
				Msg("discarding stale response")
		}
	}

	c.publish(next)
	return effects
}

// publish replaces any unread snapshot with s.
func (c *Controller) publish(s State) {
	select {
	case c.updates <- s:
		return
	default:
	}
	select {
	case <-c.updates:
	default:
	}
	select {
	case c.updates <- s:
	default:
	}
}

// start runs eff on its own goroutine and posts its completion.
func (c *Controller) start(eff Effect) {
	c.log.Debug().Str("op", eff.op()).Msg("effect started")

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()

		ev := c.perform(c.ctx, eff)
		if ev == nil {
			return
		}
		if comp, ok := ev.(completion); ok {
			slot, seq := comp.settles()
			l := c.log.With().Str("op", eff.op()).Str("slot", slot.String()).Uint64("seq", seq).Logger()
			if err := comp.failure(); err != nil {
				l.Warn().Err(err).Msg("request failed")
			} else {
				l.Debug().Msg("request settled")
			}
		}

		select {
		case c.events <- ev:
		case <-c.ctx.Done():
		}
	}()
}

// perform executes one effect. Network effects return their completion;
// bookkeeping effects return nil.
func (c *Controller) perform(ctx context.Context, eff Effect) Event {
	switch e := eff.(type) {
	case verifySession:
		token, err := c.credentialFor(e.credential)
		if err != nil {
			return sessionFailed{seq: e.seq, err: err}
		}
		c.backend.SetToken(token)
		user, err := c.backend.Me(ctx)
		if err != nil {
			return sessionFailed{seq: e.seq, err: err}
		}
		return sessionVerified{seq: e.seq, user: *user, token: token}

	case clearCredential:
		c.backend.SetToken("")
		if err := c.creds.Clear(); err != nil {
			c.log.Warn().Err(err).Msg("clearing stored credential")
		}
		return nil

	case fetchPersona:
		persona, err := c.backend.Persona(ctx)
		return personaLoaded{seq: e.seq, persona: persona, err: err}

	case fetchInbox:
		emails, err := c.backend.Inbox(ctx)
		return inboxLoaded{seq: e.seq, emails: emails, err: err}

	case fetchMessage:
		content, err := c.backend.Email(ctx, e.id)
		if err != nil {
			return messageLoaded{seq: e.seq, err: err}
		}
		return messageLoaded{seq: e.seq, content: *content}

	case requestSummary:
		var (
			summary string
			err     error
		)
		switch e.target {
		case TargetAttachment:
			summary, err = c.backend.SummarizeAttachment(ctx, e.messageID, e.attachment)
		case TargetThread:
			summary, err = c.backend.SummarizeThread(ctx, e.threadID)
		default:
			summary, err = c.backend.SummarizeText(ctx, e.body)
		}
		return summaryDone{seq: e.seq, target: e.target, messageID: e.messageID, summary: summary, err: err}

	case requestDraft:
		reply, err := c.backend.GenerateReply(ctx, e.prompt)
		return draftDone{seq: e.seq, reply: reply, err: err}

	case sendMail:
		return sendDone{seq: e.seq, messageID: e.messageID, err: c.backend.Send(ctx, e.req)}

	case storePersona:
		return personaSaved{seq: e.seq, text: e.text, err: c.backend.SavePersona(ctx, e.text)}

	case createEvent:
		link, err := c.backend.CreateEvent(ctx, e.req)
		return eventCreated{seq: e.seq, link: link, err: err}

	case recordNotification:
		if c.recorder == nil {
			return nil
		}
		// In-memory ids restart every session; the store assigns its own.
		n := e.n
		n.ID = ""
		if err := c.recorder.RecordNotification(ctx, n); err != nil {
			c.log.Warn().Err(err).Msg("recording notification")
		}
		return nil

	case recordAnalysis:
		if c.recorder == nil {
			return nil
		}
		if err := c.recorder.RecordAnalysis(ctx, e.messageID, e.analysis); err != nil {
			c.log.Warn().Err(err).Str("message_id", e.messageID).Msg("recording analysis")
		}
		return nil
	}

	c.log.Error().Str("op", eff.op()).Msg("unhandled effect")
	return nil
}

// credentialFor persists a supplied credential, or loads the stored one.
func (c *Controller) credentialFor(supplied string) (string, error) {
	if supplied != "" {
		if err := c.creds.Set(supplied); err != nil {
			c.log.Warn().Err(err).Msg("persisting credential")
		}
		return supplied, nil
	}

	token, err := c.creds.Get()
	if err != nil {
		return "", fmt.Errorf("loading stored credential: %w", err)
	}
	return token, nil
}

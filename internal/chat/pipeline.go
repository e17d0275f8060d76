package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RichardoC/padchat/internal/models"
	"github.com/RichardoC/padchat/internal/session"
	"github.com/RichardoC/padchat/internal/ui"
)

const (
	// NoContentText replaces an empty reply.
	NoContentText = "(no content)"
	errorPrefix   = "⚠️ Error: "
)

// ErrSendInFlight is returned when a send is attempted while another is unresolved.
var ErrSendInFlight = errors.New("a message is already being sent")

// State is the position of the pipeline within one send attempt.
type State int

const (
	StateIdle State = iota
	StatePreparing
	StateSending
	StateResolved
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePreparing:
		return "preparing"
	case StateSending:
		return "sending"
	case StateResolved:
		return "resolved"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Outcome is how a send attempt ended.
type Outcome int

const (
	// OutcomeIgnored: the text was blank, nothing happened.
	OutcomeIgnored Outcome = iota
	// OutcomeAborted: preparing the conversation failed before anything was rendered.
	OutcomeAborted
	OutcomeResolved
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeAborted:
		return "aborted"
	case OutcomeResolved:
		return "resolved"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Result describes a finished send attempt.
type Result struct {
	Outcome        Outcome
	Attempt        string
	ConversationID models.ConversationID
	Reply          string
	// Err is the message-send failure rendered into the transcript.
	Err error
}

// Pipeline sends composer text to the active conversation, creating one
// first when none is active.
type Pipeline struct {
	backend Backend
	state   *session.State
	ctrl    *Controller
	dir     *Directory
	page    *ui.Page
	logger  *zap.Logger

	inFlight atomic.Bool
	mu       sync.Mutex
	current  State
}

func NewPipeline(backend Backend, state *session.State, ctrl *Controller, dir *Directory, page *ui.Page, logger *zap.Logger) *Pipeline {
	return &Pipeline{backend: backend, state: state, ctrl: ctrl, dir: dir, page: page, logger: logger}
}

func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	p.current = s
	p.mu.Unlock()
}

// Submit sends whatever is in the composer input.
func (p *Pipeline) Submit(ctx context.Context) (Result, error) {
	return p.Send(ctx, p.page.Form.Input())
}

// Send runs one send attempt. Blank text is ignored. Only one attempt may be
// in flight; a concurrent call gets ErrSendInFlight and changes nothing.
//
// A failure to create the conversation aborts the attempt and is returned as
// the error. A failure of the message request itself is rendered in place of
// the assistant placeholder and reported through Result.Err.
func (p *Pipeline) Send(ctx context.Context, text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{Outcome: OutcomeIgnored}, nil
	}
	if !p.inFlight.CompareAndSwap(false, true) {
		return Result{Outcome: OutcomeIgnored}, ErrSendInFlight
	}
	defer func() {
		p.setState(StateIdle)
		p.inFlight.Store(false)
	}()

	res := Result{Attempt: uuid.NewString()}
	logger := p.logger.With(zap.String("attempt", res.Attempt))
	p.setState(StatePreparing)

	id := p.state.ActiveID()
	if id == "" {
		created, err := p.ctrl.CreateAndActivate(ctx, DefaultTitle)
		if err != nil {
			logger.Error("Failed to prepare conversation", zap.Error(err))
			res.Outcome = OutcomeAborted
			return res, err
		}
		id = created
	} else {
		// Settings are persisted before the message so the reply uses them.
		if err := p.backend.UpdateSettings(ctx, id, p.page.Form.Settings()); err != nil {
			logger.Warn("Failed to persist conversation settings",
				zap.String("conversationID", id.String()),
				zap.Error(err))
		}
	}
	res.ConversationID = id

	p.setState(StateSending)
	p.page.Transcript.AppendMessage(models.RoleUser, text)
	p.page.Form.SetDisabled(true)
	placeholder := p.page.Transcript.AppendMessage(models.RoleAssistant, ui.PlaceholderText)

	resp, err := p.backend.SendMessage(ctx, id, text)
	if err != nil {
		placeholder.Replace(errorPrefix + err.Error())
		p.setState(StateFailed)
		res.Outcome = OutcomeFailed
		res.Err = err
		logger.Warn("Message send failed",
			zap.String("conversationID", id.String()),
			zap.Error(err))
	} else {
		reply := resp.Reply
		if reply == "" {
			reply = NoContentText
		}
		placeholder.Replace(reply)
		if resp.Title != "" {
			p.dir.PatchTitle(id, resp.Title)
		}
		p.setState(StateResolved)
		res.Outcome = OutcomeResolved
		res.Reply = reply
		logger.Debug("Message send resolved",
			zap.String("conversationID", id.String()),
			zap.Int("replyLength", len(reply)))
	}

	p.page.Form.ResetInput()
	p.page.Form.SetDisabled(false)
	return res, nil
}

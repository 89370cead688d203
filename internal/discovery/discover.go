package discovery

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dsmmcken/devport/internal/platform"
	"github.com/sirupsen/logrus"
)

// State is a step of a discovery run.
type State int

const (
	StateReading State = iota
	StateParsing
	StateFiltering
	StateResolving
	StateRanking
	StateSingleCandidate
	StateMultipleCandidates
	StateNoCandidates
	// StateManualEntry is reached when discovery itself failed.
	StateManualEntry
	StateCancelled
	StateDone
)

var stateNames = map[State]string{
	StateReading:            "reading",
	StateParsing:            "parsing",
	StateFiltering:          "filtering",
	StateResolving:          "resolving",
	StateRanking:            "ranking",
	StateSingleCandidate:    "single-candidate",
	StateMultipleCandidates: "multiple-candidates",
	StateNoCandidates:       "no-candidates",
	StateManualEntry:        "manual-entry",
	StateCancelled:          "cancelled",
	StateDone:               "done",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "state(" + strconv.Itoa(int(s)) + ")"
}

// Answer is the reply to a yes/no confirmation.
type Answer int

const (
	// AnswerNone means the prompt was dismissed.
	AnswerNone Answer = iota
	AnswerYes
	AnswerNo
)

// Item is one entry of a selection prompt.
type Item struct {
	Label       string
	Description string
	Payload     string
}

// Prompter is the user interface discovery talks to. A false ok means the
// prompt was dismissed. Errors are logged and treated as a dismissal.
type Prompter interface {
	Confirm(ctx context.Context, message string) (Answer, error)
	Select(ctx context.Context, title string, items []Item) (payload string, ok bool, err error)
	Input(ctx context.Context, prompt, placeholder string, validate func(string) error) (value string, ok bool, err error)
}

// Prompt texts.
const (
	SelectTitle       = "Select a port from running dev servers"
	InputPrompt       = "Enter the port number"
	InputPlaceholder  = "e.g., 3000"
	confirmMessageFmt = "Use port %d from %s?"
)

// Result is the outcome of a discovery run.
type Result struct {
	// State is the decision state the run ended in: SingleCandidate,
	// MultipleCandidates, NoCandidates, ManualEntry or Cancelled.
	State State
	// Port is the chosen port, empty when nothing was chosen.
	Port       string
	Candidates []PortCandidate
	// Trace lists every state the run passed through, in order.
	Trace []State
}

// OK reports whether a port was chosen.
func (r Result) OK() bool {
	return r.Port != ""
}

// Discoverer finds listening dev servers and asks the user to pick one.
type Discoverer struct {
	opts     Options
	prompter Prompter
	log      logrus.FieldLogger
	reader   *Reader
	resolver *Resolver
	ranker   Ranker
}

// New returns a Discoverer. prompter may be nil for callers that only use
// Candidates or Kill.
func New(opts Options, prompter Prompter) *Discoverer {
	opts = opts.withDefaults()
	return &Discoverer{
		opts:     opts,
		prompter: prompter,
		log:      opts.Log,
		reader:   NewReader(opts.Platform, opts.Runner, opts.Log, opts.runtimeFilter()),
		resolver: NewResolver(opts.Platform, opts.Runner, opts.Log, opts.Concurrency),
		ranker: Ranker{
			MinPort:       opts.MinPort,
			PriorityPorts: opts.PriorityPorts,
			Runtimes:      opts.runtimeFilter(),
		},
	}
}

// DiscoverPort runs discovery and returns the chosen port.
func (d *Discoverer) DiscoverPort(ctx context.Context) (string, bool) {
	res := d.Run(ctx)
	return res.Port, res.OK()
}

// Candidates runs the non-interactive part of discovery and returns the
// ranked candidates.
func (d *Discoverer) Candidates(ctx context.Context) ([]PortCandidate, error) {
	return (&run{d: d}).candidates(ctx)
}

// Run performs a full discovery, prompting through the Prompter.
func (d *Discoverer) Run(ctx context.Context) Result {
	r := &run{d: d}
	res := r.execute(ctx)
	r.enter(StateDone)
	res.Trace = r.trace
	return res
}

type run struct {
	d     *Discoverer
	trace []State
}

func (r *run) enter(s State) {
	r.trace = append(r.trace, s)
	r.d.log.WithField("stage", s.String()).Debug("discovery stage")
}

func (r *run) execute(ctx context.Context) (res Result) {
	cands, err := r.candidates(ctx)
	if err != nil {
		if ctx.Err() != nil {
			r.enter(StateCancelled)
			return Result{State: StateCancelled}
		}
		r.d.log.WithError(err).Warn("port detection failed, falling back to manual entry")
		r.enter(StateManualEntry)
		return r.manual(ctx, StateManualEntry)
	}

	switch len(cands) {
	case 0:
		r.d.log.Info("no listening dev servers found")
		r.enter(StateNoCandidates)
		res = r.manual(ctx, StateNoCandidates)
	case 1:
		r.enter(StateSingleCandidate)
		res = r.confirm(ctx, cands[0])
	default:
		r.enter(StateMultipleCandidates)
		res = r.choose(ctx, cands)
	}
	res.Candidates = cands
	return res
}

func (r *run) candidates(ctx context.Context) (cands []PortCandidate, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("discovery panicked: %v", rec)
		}
	}()

	d := r.d
	r.enter(StateReading)
	listing, err := d.reader.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading process table: %w", err)
	}

	r.enter(StateParsing)
	records := ParseListing(d.opts.Platform, listing.Sockets)
	d.log.WithFields(logrus.Fields{
		"records": len(records),
		"dropped": countLines(listing.Sockets) - len(records),
	}).Debug("parsed listening sockets")

	if d.opts.Platform == platform.Windows {
		if d.opts.AllProcesses {
			records = NameByPID(records, ParseTasklist(listing.Tasks, nil))
		} else {
			r.enter(StateFiltering)
			allowed := ParseTasklist(listing.Tasks, d.opts.Runtimes)
			records = FilterByPID(records, allowed)
			d.log.WithField("records", len(records)).Debug("applied runtime allow-list")
		}
	}

	r.enter(StateResolving)
	pids := make([]int, 0, len(records))
	for _, rec := range records {
		pids = append(pids, rec.PID)
	}
	ids := d.resolver.ResolveAll(ctx, pids)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.enter(StateRanking)
	return d.ranker.Rank(records, ids), nil
}

func (r *run) confirm(ctx context.Context, c PortCandidate) Result {
	res := Result{State: StateSingleCandidate}
	if r.d.opts.AutoConfirm {
		res.Port = strconv.Itoa(c.Port)
		return res
	}
	p, ok := r.prompter()
	if !ok {
		return res
	}

	answer, err := p.Confirm(ctx, fmt.Sprintf(confirmMessageFmt, c.Port, c.Label))
	if err != nil {
		r.d.log.WithError(err).Warn("confirmation prompt failed")
		return res
	}
	if answer == AnswerYes {
		res.Port = strconv.Itoa(c.Port)
	}
	return res
}

func (r *run) choose(ctx context.Context, cands []PortCandidate) Result {
	res := Result{State: StateMultipleCandidates}
	if r.d.opts.AutoConfirm {
		res.Port = strconv.Itoa(cands[0].Port)
		return res
	}
	p, ok := r.prompter()
	if !ok {
		return res
	}

	items := make([]Item, len(cands))
	for i, c := range cands {
		items[i] = Item{Label: c.Label, Description: c.Description(), Payload: strconv.Itoa(c.Port)}
	}
	payload, ok, err := p.Select(ctx, SelectTitle, items)
	if err != nil {
		r.d.log.WithError(err).Warn("selection prompt failed")
		return res
	}
	if !ok {
		return res
	}
	for _, it := range items {
		if it.Payload == payload {
			res.Port = payload
			return res
		}
	}
	r.d.log.WithField("payload", payload).Warn("selection returned an unknown port")
	return res
}

func (r *run) manual(ctx context.Context, state State) Result {
	res := Result{State: state}
	p, ok := r.prompter()
	if !ok {
		return res
	}

	value, ok, err := p.Input(ctx, InputPrompt, InputPlaceholder, ValidatePort)
	if err != nil {
		r.d.log.WithError(err).Warn("port input prompt failed")
		return res
	}
	if !ok {
		return res
	}
	port, err := ParsePort(value)
	if err != nil {
		r.d.log.WithField("value", value).Warn("manual port entry rejected")
		return res
	}
	res.Port = strconv.Itoa(port)
	return res
}

func (r *run) prompter() (Prompter, bool) {
	if r.d.prompter == nil {
		r.d.log.Warn("no prompter configured")
		return nil, false
	}
	return r.d.prompter, true
}

// IsCancelled reports whether err came from a cancelled or expired context.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func countLines(content string) int {
	n := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

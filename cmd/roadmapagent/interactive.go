package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/tbxark/roadmapagent/agent"
	"github.com/tbxark/roadmapagent/command"
	"github.com/tbxark/roadmapagent/dialogue"
	"github.com/tbxark/roadmapagent/patch"
	"github.com/tbxark/roadmapagent/types"
)

const helpText = `Commands:
  demo   show a sample roadmap without an API key
  reset  start a new roadmap
  key    enter a different API key
  help   show this message
  quit   exit
While filling in the form, prefix commands with '/' (for example /quit).`

// interactiveSession drives RoadmapFlow from a line based terminal.
type interactiveSession struct {
	flow       *agent.RoadmapFlow
	parser     command.Parser
	dialogue   dialogue.Generator
	in         *bufio.Reader
	out        io.Writer
	readSecret func() (string, error)
	format     string

	form    types.Request
	invalid []types.FieldInfo
}

// newInteractiveSession reads secrets from the same line reader when readSecret is nil.
// With showAll, every remaining field is listed in each prompt; answers still fill them in order.
func newInteractiveSession(flow *agent.RoadmapFlow, in io.Reader, out io.Writer, readSecret func() (string, error), showAll bool) *interactiveSession {
	s := &interactiveSession{
		flow:       flow,
		parser:     command.NewLocalCommandParser(),
		dialogue:   &dialogue.LocalDialogueGenerator{MergeAllUnvalidatedFields: showAll},
		in:         bufio.NewReader(in),
		out:        out,
		readSecret: readSecret,
		format:     formatMarkdown,
	}
	if s.readSecret == nil {
		s.readSecret = func() (string, error) {
			return readLine(s.in)
		}
	}
	return s
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *interactiveSession) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		state, err := s.flow.Current(ctx)
		if err != nil {
			return err
		}
		configured := s.flow.Configured(ctx)
		if !configured && state.Phase != types.PhaseRendered {
			done, err := s.configure(ctx)
			if err != nil || done {
				return err
			}
			continue
		}

		prompt, err := s.dialogue.GenerateDialogue(ctx, &dialogue.Request{
			Phase:            state.Phase,
			Configured:       true,
			MissingFields:    agent.RoadmapFormSpec{}.MissingFacts(&s.form),
			ValidationErrors: s.invalid,
		})
		if err != nil {
			return err
		}
		s.invalid = nil
		fmt.Fprintln(s.out, styled(s.out, promptStyle, prompt))

		line, err := s.in.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && strings.TrimSpace(line) == "" {
				return nil
			}
			if !errors.Is(err, io.EOF) {
				return err
			}
		}
		done, err := s.handle(ctx, state, strings.TrimSpace(line))
		if err != nil || done {
			return err
		}
	}
}

func (s *interactiveSession) configure(ctx context.Context) (bool, error) {
	prompt, err := s.dialogue.GenerateDialogue(ctx, &dialogue.Request{Configured: false})
	if err != nil {
		return false, err
	}
	fmt.Fprintln(s.out, styled(s.out, promptStyle, prompt))
	secret, err := s.readSecret()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return true, nil
		}
		return false, err
	}
	cmd, err := s.parser.ParseCommand(ctx, secret)
	if err != nil {
		return false, err
	}
	switch cmd {
	case command.Quit:
		return true, nil
	case command.Demo:
		return false, s.demo(ctx)
	case command.Help:
		fmt.Fprintln(s.out, helpText)
		return false, nil
	}
	if err := s.flow.Configure(ctx, secret); err != nil {
		s.printError(err)
		return false, nil
	}
	fmt.Fprintln(s.out, styled(s.out, hintStyle, "API key accepted."))
	return false, nil
}

// handle treats a line as a command, except while the form is being filled in, where
// only '/'-prefixed lines are commands so answers like "q" or "?" are kept as values.
func (s *interactiveSession) handle(ctx context.Context, state *agent.State, line string) (bool, error) {
	cmd := command.None
	if state.Phase != types.PhaseCollecting || strings.HasPrefix(line, "/") {
		var err error
		cmd, err = s.parser.ParseCommand(ctx, line)
		if err != nil {
			return false, err
		}
	}
	switch cmd {
	case command.Quit:
		return true, nil
	case command.Help:
		fmt.Fprintln(s.out, helpText)
		return false, nil
	case command.Demo:
		return false, s.demo(ctx)
	case command.Reset:
		return false, s.reset(ctx)
	case command.Key:
		if err := s.flow.Forget(ctx); err != nil {
			return false, err
		}
		s.form = types.Request{}
		return false, nil
	}

	if state.Phase == types.PhaseRendered {
		fmt.Fprintln(s.out, helpText)
		return false, nil
	}

	missing := agent.RoadmapFormSpec{}.MissingFacts(&s.form)
	if len(missing) == 0 {
		return false, s.generate(ctx)
	}
	if line == "" {
		s.invalid = requiredIssues(missing[:1])
		return false, nil
	}
	if err := s.setField(missing[0], line); err != nil {
		return false, err
	}
	if len(missing) == 1 {
		return false, s.generate(ctx)
	}
	return false, nil
}

// requiredIssues drops the field hints so the prompt reads "X is required".
func requiredIssues(fields []types.FieldInfo) []types.FieldInfo {
	issues := make([]types.FieldInfo, 0, len(fields))
	for _, field := range fields {
		issues = append(issues, types.FieldInfo{
			JSONPointer: field.JSONPointer,
			DisplayName: field.DisplayName,
			Required:    field.Required,
		})
	}
	return issues
}

// setField writes one answer into the form through its JSON pointer.
func (s *interactiveSession) setField(field types.FieldInfo, value string) error {
	doc, err := sonic.Marshal(&s.form)
	if err != nil {
		return err
	}
	doc, err = patch.Apply(doc, []patch.Operation{{
		Op:    patch.OperationReplace,
		Path:  field.JSONPointer,
		Value: value,
	}})
	if err != nil {
		return fmt.Errorf("set %s: %w", field.DisplayName, err)
	}
	return sonic.Unmarshal(doc, &s.form)
}

func (s *interactiveSession) generate(ctx context.Context) error {
	fmt.Fprintln(s.out, agent.RoadmapFormSpec{}.Summary(&s.form))
	fmt.Fprintln(s.out, styled(s.out, hintStyle, "Generating Your Roadmap..."))
	resp, err := s.flow.Invoke(ctx, &s.form)
	if err != nil {
		var vErr *agent.ValidationError
		switch {
		case errors.As(err, &vErr):
			s.invalid = requiredIssues(vErr.Fields)
			return nil
		case errors.Is(err, agent.ErrNotConfigured), errors.Is(err, agent.ErrInFlight):
			s.printError(err)
			return nil
		}
		return err
	}
	slog.Debug("Roadmap rendered", "career", resp.State.Form.Career, "source", resp.State.Source)
	return s.render(resp)
}

func (s *interactiveSession) demo(ctx context.Context) error {
	resp, err := s.flow.Demo(ctx, s.form.Career)
	if err != nil {
		if errors.Is(err, agent.ErrInFlight) {
			s.printError(err)
			return nil
		}
		return err
	}
	return s.render(resp)
}

func (s *interactiveSession) reset(ctx context.Context) error {
	resp, err := s.flow.Reset(ctx)
	if err != nil {
		if errors.Is(err, agent.ErrInFlight) {
			s.printError(err)
			return nil
		}
		return err
	}
	s.form = types.Request{}
	fmt.Fprintln(s.out, styled(s.out, hintStyle, resp.Message))
	return nil
}

func (s *interactiveSession) render(resp *agent.Response) error {
	if resp.Message != "" {
		fmt.Fprintln(s.out, styled(s.out, hintStyle, resp.Message))
	}
	return renderRoadmap(s.out, resp.State.Roadmap, s.format)
}

func (s *interactiveSession) printError(err error) {
	fmt.Fprintln(s.out, styled(s.out, errorStyle, "Error: "+err.Error()))
}

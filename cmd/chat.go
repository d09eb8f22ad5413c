package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"go.uber.org/zap"

	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/screening"
	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/skills"
)

const (
	PromptRetry = "Retry"
	PromptExit  = "Exit"
)

// chat runs one screening in the terminal. Reading input and choosing what to do after
// a failed turn are pluggable so the loop can run without a TTY.
type chat struct {
	machine *screening.Machine
	state   *screening.State
	out     io.Writer
	logger  *zap.Logger
	timeout time.Duration

	read   func(label string) (string, error)
	choose func() (string, error)
}

func promptRead(label string) (string, error) {
	p := promptui.Prompt{Label: label}
	return p.Run()
}

func promptChoose() (string, error) {
	s := promptui.Select{
		Label: "The assistant did not respond. Try again?",
		Items: []string{PromptRetry, PromptExit},
	}
	_, choice, err := s.Run()
	return choice, err
}

func (c *chat) run(ctx context.Context) error {
	c.render(c.machine.Start(c.state))

	for !c.state.Done() {
		input, err := c.read(c.label())
		if err != nil {
			if !errors.Is(err, promptui.ErrInterrupt) && !errors.Is(err, promptui.ErrEOF) && !errors.Is(err, io.EOF) {
				return fmt.Errorf("read input: %w", err)
			}
			c.logger.Info("input closed, finishing the screening")
			input = c.machine.ExitCommand()
		}

		if err := c.submit(ctx, input); err != nil {
			return err
		}
	}

	c.summary()
	return nil
}

// submit hands one input to the machine and offers to resend it while the gateway
// keeps failing.
func (c *chat) submit(ctx context.Context, input string) error {
	for {
		reply, err := c.handle(ctx, input)
		if err == nil {
			c.render(reply)
			return nil
		}

		if !screening.IsRetryable(err) {
			return err
		}

		fmt.Fprintf(c.out, "[notice] The assistant is unavailable right now (%v).\n", err)

		choice, err := c.choose()
		if err != nil || choice == PromptExit {
			input = c.machine.ExitCommand()
		}
	}
}

func (c *chat) handle(ctx context.Context, input string) (*screening.Reply, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.machine.Handle(ctx, c.state, input)
}

func (c *chat) label() string {
	switch c.state.Phase {
	case screening.Intake:
		if c.state.FieldIndex < len(screening.IntakeFields) {
			return screening.IntakeFields[c.state.FieldIndex].Label()
		}
	case screening.Consent:
		return "Yes / No"
	case screening.Technical:
		return fmt.Sprintf("Answer (%d/%d)", c.state.TotalQuestions(), c.machine.Limits().MaxTotalQuestions)
	}
	return "You"
}

func (c *chat) render(reply *screening.Reply) {
	if reply == nil {
		return
	}
	for _, notice := range reply.Notices {
		fmt.Fprintf(c.out, "[notice] %s\n", notice)
	}
	for _, msg := range reply.Messages {
		fmt.Fprintf(c.out, "%s: %s\n\n", app, msg)
	}
}

func (c *chat) summary() {
	counts := c.state.CountByCategory()
	parts := make([]string, 0, len(counts))
	for _, category := range c.state.Skills.Categories() {
		if n := counts[category]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", category, n))
		}
	}
	if n := counts[skills.General]; n > 0 {
		parts = append(parts, fmt.Sprintf("%s %d", skills.General, n))
	}

	fmt.Fprintf(c.out, "Session %s finished (%s): %d question(s) answered", c.state.SessionID, c.state.Reason, c.state.AnsweredCount())
	if len(parts) > 0 {
		fmt.Fprintf(c.out, " [%s]", strings.Join(parts, ", "))
	}
	fmt.Fprintf(c.out, ", consent %s.\n", c.state.Consent)
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/wolfeidau/asknalyze/internal/interview"
	"github.com/wolfeidau/asknalyze/internal/navigation"
)

type InterviewCmd struct {
	Validate InterviewValidateCmd `cmd:"" help:"Check an interview practice form file"`
	Draft    InterviewDraftCmd    `cmd:"" help:"Manage the autosaved interview draft"`
}

type InterviewDraftCmd struct {
	Save  InterviewDraftSaveCmd  `cmd:"" help:"Save a form file as the draft"`
	Show  InterviewDraftShowCmd  `cmd:"" help:"Print the draft as YAML"`
	Clear InterviewDraftClearCmd `cmd:"" help:"Discard the draft"`
}

type InterviewValidateCmd struct {
	State StateFlags `embed:""`
	File  string     `arg:"" help:"Form file (.yaml or .json)" type:"existingfile"`
}

func (c *InterviewValidateCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := c.State.open()
	if err != nil {
		return err
	}
	if err := e.enter(navigation.PathAddInterview); err != nil {
		return err
	}

	user, _ := e.session.CurrentUser()
	form, err := interview.LoadFile(c.File, user)
	if err != nil {
		return err
	}

	out := globals.out()
	if err := form.Validate(); err != nil {
		var verr *interview.ValidationError
		if errors.As(err, &verr) {
			for _, field := range slices.Sorted(maps.Keys(verr.Fields)) {
				fmt.Fprintf(out, "%s: %s\n", field, verr.Fields[field])
			}
			for _, q := range form.Questions {
				for _, field := range slices.Sorted(maps.Keys(verr.Questions[q.ID])) {
					fmt.Fprintf(out, "question %s %s: %s\n", q.ID, field, verr.Questions[q.ID][field])
				}
			}
		}
		return err
	}

	fmt.Fprintf(out, "%s: %d question(s), ok\n", c.File, len(form.Questions))
	return nil
}

type InterviewDraftSaveCmd struct {
	State StateFlags `embed:""`
	File  string     `arg:"" help:"Form file (.yaml or .json)" type:"existingfile"`
}

func (c *InterviewDraftSaveCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := c.State.open()
	if err != nil {
		return err
	}
	if err := e.enter(navigation.PathAddInterview); err != nil {
		return err
	}

	user, _ := e.session.CurrentUser()
	form, err := interview.LoadFile(c.File, user)
	if err != nil {
		return err
	}

	if err := interview.NewDrafts(e.store).Save(form); err != nil {
		return err
	}

	fmt.Fprintln(globals.out(), "Draft saved")
	return nil
}

type InterviewDraftShowCmd struct {
	State StateFlags `embed:""`
}

func (c *InterviewDraftShowCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := c.State.open()
	if err != nil {
		return err
	}
	if err := e.enter(navigation.PathAddInterview); err != nil {
		return err
	}

	user, _ := e.session.CurrentUser()
	form, _ := interview.NewDrafts(e.store).Load(user)

	enc := yaml.NewEncoder(globals.out())
	enc.SetIndent(2)
	if err := enc.Encode(form); err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	return enc.Close()
}

type InterviewDraftClearCmd struct {
	State StateFlags `embed:""`
}

func (c *InterviewDraftClearCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := c.State.open()
	if err != nil {
		return err
	}
	if err := e.enter(navigation.PathAddInterview); err != nil {
		return err
	}

	interview.NewDrafts(e.store).Clear()

	fmt.Fprintln(globals.out(), "Draft cleared")
	return nil
}

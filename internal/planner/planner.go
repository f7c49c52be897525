package planner

import (
	"context"
	"fmt"
)

// Deps holds the collaborators of a Planner. All fields are optional.
type Deps struct {
	// Locator finds RefProgram when no binary directory is given.
	// Without one, --dir-bin is required.
	Locator Locator
	// Applier performs the Apply stage. Without one, Run stops after planning.
	Applier Applier
	Logger  Logger
}

// Planner runs the planning stages.
type Planner struct {
	locator Locator
	applier Applier
	log     Logger
}

// New creates a Planner from its collaborators.
func New(deps Deps) *Planner {
	p := &Planner{
		locator: deps.Locator,
		applier: deps.Applier,
		log:     deps.Logger,
	}
	if p.log == nil {
		p.log = noopLogger{}
	}
	return p
}

// Plan runs every stage up to and including ClassifyModificationNeeds.
// The returned Plan is non-nil even on error; its Stage names the stage that
// failed and its Records hold whatever was loaded so far. Errors are reported
// through the Logger before they are returned.
func (p *Planner) Plan(ctx context.Context, opts Options) (*Plan, error) {
	plan := &Plan{Stage: StageConfigureDirectories}

	if opts.Verbose > 1 {
		p.log.Notef("processing...")
	}

	cfg, err := p.configureDirectories(ctx, opts)
	if err != nil {
		return plan, err
	}
	plan.Config = cfg

	plan.Stage = StageLoadCandidates
	records, err := p.loadCandidates(cfg)
	if err != nil {
		return plan, err
	}
	plan.Records = records

	plan.Stage = StageResolveSiblingSourcing
	if err := p.resolveSiblingSourcing(cfg, plan); err != nil {
		return plan, err
	}
	p.markBashEnv(cfg, plan)

	plan.Stage = StageClassifyModificationNeeds
	p.classify(cfg, plan.Records)
	if cfg.Verbose > 0 {
		p.summarize(plan)
	}

	return plan, nil
}

// Run plans and then, unless the run is in test mode, applies the plan.
func (p *Planner) Run(ctx context.Context, opts Options) (*Plan, error) {
	plan, err := p.Plan(ctx, opts)
	if err != nil {
		return plan, err
	}

	if plan.Config.Test || p.applier == nil {
		plan.Stage = StageDone
		return plan, nil
	}

	plan.Stage = StageApply
	if err := ctx.Err(); err != nil {
		p.log.Errorf("cancelled before editing dotfiles: %v", err)
		return plan, fmt.Errorf("apply cancelled: %w", err)
	}

	result, err := p.applier.Apply(ctx, plan)
	if err != nil {
		p.log.Errorf("failed to update dotfiles: %v", err)
		return plan, fmt.Errorf("apply plan: %w", err)
	}
	plan.Applied = result

	return plan, nil
}

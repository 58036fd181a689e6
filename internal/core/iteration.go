package core

import (
	"context"
	"fmt"
	"strings"
)

// generateAndReview runs the coder/reviewer iteration loop: generate,
// review, feed the feedback back into the next round, up to MaxIterations
// rounds. The reviewer forces re-coding simply by withholding approval.
//
// It returns the winning code ("" when no round produced anything usable)
// and the complete ordered feedback history. The history is append-only:
// every round contributes exactly one entry, real or synthetic, and is
// never truncated. When the iteration budget runs out without approval
// the highest-scored candidate wins (strict improvement; ties keep the
// earlier iteration) and a [SYSTEM] note naming it is appended.
func (p *Pipeline) generateAndReview(ctx context.Context, reqs *Requirements, progress ProgressFunc, stop StopFunc, previousCode string) (string, []string) {
	feedbacks := []string{}
	feedback := ""
	var best *candidate

	for iter := 0; iter < p.cfg.MaxIterations; iter++ {
		if stop() {
			p.logger.Warn("code generation stopped by user", "iteration", iter+1)
			if best != nil {
				return best.code, feedbacks
			}
			return "", feedbacks
		}

		p.logger.Info("code generation iteration",
			"iteration", iter+1,
			"max_iterations", p.cfg.MaxIterations,
			"has_feedback", feedback != "")

		iterProgress := 15 + iter*30/p.cfg.MaxIterations
		progress(iterProgress, fmt.Sprintf("Step 2-3/6: Generating code (iteration %d/%d)...", iter+1, p.cfg.MaxIterations))

		// Previous code from a follow-up run seeds only the first round,
		// and only while no review feedback exists yet.
		prev := ""
		if iter == 0 && feedback == "" {
			prev = previousCode
		}

		var code string
		err := p.withStageTimeout(ctx, StageCodeGeneration, func(sctx context.Context) error {
			return p.cfg.Retry.Do(sctx, func() error {
				c, gerr := p.agents.Coder.GenerateCode(sctx, reqs, feedback, prev)
				if gerr != nil {
					return gerr
				}
				code = c
				return nil
			})
		})
		if err != nil {
			err = &StageError{Stage: StageCodeGeneration, Attempt: p.cfg.Retry.MaxAttempts, Cause: err}
			p.logger.Error("code generation failed", "iteration", iter+1, "error", err)
			feedbacks = append(feedbacks, fmt.Sprintf("Code generation error: %v", err))
			continue
		}

		if strings.TrimSpace(code) == "" {
			feedbacks = append(feedbacks, "Code generation returned empty result")
			continue
		}

		reviewProgress := iterProgress + 5
		if reviewProgress > 45 {
			reviewProgress = 45
		}
		progress(reviewProgress, fmt.Sprintf("Step 2-3/6: Reviewing code (iteration %d/%d)...", iter+1, p.cfg.MaxIterations))

		var approved bool
		var reviewFeedback string
		err = p.withStageTimeout(ctx, StageCodeReview, func(sctx context.Context) error {
			return p.cfg.Retry.Do(sctx, func() error {
				a, fb, rerr := p.agents.Reviewer.Review(sctx, code, reqs)
				if rerr != nil {
					return rerr
				}
				approved, reviewFeedback = a, fb
				return nil
			})
		})
		if err != nil {
			// Unreviewable code is treated as not approved.
			err = &StageError{Stage: StageCodeReview, Attempt: p.cfg.Retry.MaxAttempts, Cause: err}
			p.logger.Error("code review failed", "iteration", iter+1, "error", err)
			approved = false
			reviewFeedback = fmt.Sprintf("Review error: %v", err)
		}

		feedbacks = append(feedbacks, reviewFeedback)

		score := Score(reviewFeedback, code)
		if best == nil || score > best.score {
			best = &candidate{code: code, score: score, iteration: iter + 1}
		}
		p.sink.Event("iteration_reviewed", map[string]any{
			"iteration": iter + 1,
			"approved":  approved,
			"score":     score,
		})

		if approved {
			p.logger.Info("code approved", "iteration", iter+1, "score", score)
			progress(45, "Code approved! Moving to documentation...")
			return code, feedbacks
		}

		feedback = reviewFeedback
	}

	if best != nil {
		p.logger.Warn("max iterations reached, using best candidate",
			"max_iterations", p.cfg.MaxIterations,
			"best_iteration", best.iteration,
			"best_score", best.score)
		feedbacks = append(feedbacks, fmt.Sprintf(
			"[SYSTEM] Maximum iterations (%d) reached. Using best code generated (iteration %d). Pipeline will continue with all remaining steps.",
			p.cfg.MaxIterations, best.iteration))
		return best.code, feedbacks
	}

	p.logger.Error("code generation failed, no usable code produced")
	return "", feedbacks
}

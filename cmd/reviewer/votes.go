package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/sinedd777/resume-reviewer/internal/vote"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type voteOutput struct {
	CommentID  string `json:"commentId"`
	State      string `json:"state"`
	Likes      int    `json:"likes"`
	Dislikes   int    `json:"dislikes"`
	Reconciled bool   `json:"reconciled"`
}

func voteCommand(action vote.Action) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s <resumeId> <commentId>", action),
		Short: fmt.Sprintf("%s a comment once per session", action),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			resumeID, commentID := args[0], args[1]
			c := newClient()

			store, err := newSessionStore(ctx)
			if err != nil {
				return err
			}
			session, err := vote.NewSession(ctx, store, resumeID)
			if err != nil {
				return err
			}

			comments, err := c.ListComments(ctx, resumeID, "")
			if err != nil {
				return err
			}
			if err := session.Track(ctx, comments); err != nil {
				logger.Warn("failed to save vote session", zap.Error(err))
			}

			res, err := vote.NewReconciler(c, session, logger).Vote(ctx, commentID, action)
			if errors.Is(err, vote.ErrAlreadyVoted) {
				return fmt.Errorf("you already %sd this comment in session %q", action, sessionID)
			}
			if errors.Is(err, vote.ErrUntracked) {
				return fmt.Errorf("comment %s does not belong to resume %s", commentID, resumeID)
			}
			if err != nil {
				return fmt.Errorf("vote was not saved, reverted to %s: %w", res.State, err)
			}

			out := voteOutput{
				CommentID:  commentID,
				State:      res.State.String(),
				Likes:      res.Counts.Likes.Int(),
				Dislikes:   res.Counts.Dislikes.Int(),
				Reconciled: res.Reconciled,
			}
			return render(cmd.OutOrStdout(), out, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "COMMENT\tSTATE\tLIKES\tDISLIKES")
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", out.CommentID, out.State, out.Likes, out.Dislikes)
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(voteCommand(vote.Like), voteCommand(vote.Dislike))
}

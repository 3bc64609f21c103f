package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sinedd777/resume-reviewer/internal/client"
	"github.com/sinedd777/resume-reviewer/internal/domain"
	"github.com/sinedd777/resume-reviewer/internal/position"

	"github.com/spf13/cobra"
)

// gap between stacked pages in the viewer, in pixels
const pageGap = 16

var (
	sortBy      string
	markerWidth float64
	clickWidth  float64

	clickAt     string
	selected    string
	author      string
	commentType string
)

// marker is a comment with its pixel location at the requested render width.
type marker struct {
	domain.Comment
	Pixel *position.Point `json:"pixel,omitempty"`
}

var commentsCmd = &cobra.Command{
	Use:   "comments <resumeId>",
	Short: "List the comments of a resume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c := newClient()

		comments, err := c.ListComments(ctx, args[0], sortBy)
		if err != nil {
			return err
		}

		var pages []domain.PageSize
		if markerWidth > 0 {
			r, err := c.GetResume(ctx, args[0])
			if err != nil {
				return err
			}
			pages = r.Pages
		}

		markers := make([]marker, 0, len(comments))
		for _, cm := range comments {
			m := marker{Comment: cm}
			if p, ok := markerAt(cm.Position, pages, markerWidth); ok {
				m.Pixel = &p
			}
			markers = append(markers, m)
		}

		return render(cmd.OutOrStdout(), markers, func(tw *tabwriter.Writer) {
			fmt.Fprintln(tw, "ID\tPAGE\tAT\tTYPE\t+/-\tAUTHOR\tCREATED\tCOMMENT")
			for _, m := range markers {
				at := fmt.Sprintf("%.3f,%.3f", m.Position.X, m.Position.Y)
				if m.Pixel != nil {
					at = fmt.Sprintf("%.0fpx,%.0fpx", m.Pixel.X, m.Pixel.Y)
				}
				who := "-"
				if m.Author != nil {
					who = *m.Author
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%d/%d\t%s\t%s\t%s\n",
					m.ID, m.Position.PageNumber, at, m.CommentType,
					m.Likes.Int(), m.Dislikes.Int(), who,
					m.CreatedAt.Local().Format(time.DateTime), m.Content)
			}
		})
	},
}

// markerAt places pos on its page rendered width pixels wide. Pages render
// at scale 1 by default, so legacy pixel positions are scaled against the
// page's point width.
func markerAt(pos domain.Position, pages []domain.PageSize, width float64) (position.Point, bool) {
	if width <= 0 || pos.PageNumber < 1 || pos.PageNumber > len(pages) {
		return position.Point{}, false
	}
	page := pages[pos.PageNumber-1]
	if page.Width <= 0 {
		return position.Point{}, false
	}
	current := position.Size{Width: width, Height: width * page.Height / page.Width}
	return position.Render(pos, current, position.SizeOf(page)), true
}

// stackPages lays pages out top to bottom at width pixels, the way the
// viewer shows them.
func stackPages(pages []domain.PageSize, width float64) []position.Rect {
	rects := make([]position.Rect, 0, len(pages))
	top := 0.0
	for _, p := range pages {
		h := 0.0
		if p.Width > 0 {
			h = width * p.Height / p.Width
		}
		rects = append(rects, position.Rect{Left: 0, Top: top, Width: width, Height: h})
		top += h + pageGap
	}
	return rects
}

func parsePoint(s string) (position.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return position.Point{}, fmt.Errorf("expected X,Y but got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return position.Point{}, fmt.Errorf("bad x in %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return position.Point{}, fmt.Errorf("bad y in %q: %w", s, err)
	}
	return position.Point{X: x, Y: y}, nil
}

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Work with a single comment",
}

var commentAddCmd = &cobra.Command{
	Use:   "add <resumeId> <text>",
	Short: "Add a comment where the viewer was clicked",
	Long: `Pages are laid out top to bottom at --width pixels with a 16px gap.
--click is a point in that layout; the page under it receives the comment.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c := newClient()

		click, err := parsePoint(clickAt)
		if err != nil {
			return err
		}
		r, err := c.GetResume(ctx, args[0])
		if err != nil {
			return err
		}
		if len(r.Pages) == 0 {
			return fmt.Errorf("resume %s has no page sizes to place a click on", r.ID)
		}

		pos, err := position.Capture(click, stackPages(r.Pages, clickWidth), selected)
		if err != nil {
			return err
		}

		req := client.CreateCommentRequest{
			ResumeID:    r.ID,
			Content:     args[1],
			Position:    pos,
			CommentType: domain.CommentType(commentType),
		}
		if author != "" {
			req.Author = &author
		}
		created, err := c.CreateComment(ctx, req)
		if err != nil {
			return err
		}

		return render(cmd.OutOrStdout(), created, func(tw *tabwriter.Writer) {
			fmt.Fprintln(tw, "ID\tPAGE\tX\tY")
			fmt.Fprintf(tw, "%s\t%d\t%.4f\t%.4f\n", created.ID, created.Position.PageNumber, created.Position.X, created.Position.Y)
		})
	},
}

func init() {
	commentsCmd.Flags().StringVar(&sortBy, "sort", "", "order by date (newest first) or score")
	commentsCmd.Flags().Float64Var(&markerWidth, "width", 0, "also print marker pixels for pages rendered this wide")

	commentAddCmd.Flags().StringVar(&clickAt, "click", "", "click location X,Y in viewer pixels")
	commentAddCmd.Flags().Float64Var(&clickWidth, "width", 800, "rendered page width in pixels")
	commentAddCmd.Flags().StringVar(&selected, "selected", "", "text selected when clicking")
	commentAddCmd.Flags().StringVar(&author, "author", "", "display name")
	commentAddCmd.Flags().StringVar(&commentType, "type", string(domain.CommentTypeContent), "content or styling")
	commentAddCmd.MarkFlagRequired("click")

	commentCmd.AddCommand(commentAddCmd)
	rootCmd.AddCommand(commentsCmd, commentCmd)
}

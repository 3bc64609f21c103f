package vote

import (
	"errors"

	"github.com/sinedd777/resume-reviewer/internal/domain"
)

// ErrAlreadyVoted is returned for a like on a Liked comment or a dislike on a
// Disliked one. Nothing is changed and the store is not contacted.
var ErrAlreadyVoted = errors.New("already voted")

// State is one viewer's vote on one comment.
type State int

const (
	Neutral State = iota
	Liked
	Disliked
)

func (s State) String() string {
	switch s {
	case Liked:
		return "liked"
	case Disliked:
		return "disliked"
	default:
		return "neutral"
	}
}

type Action int

const (
	Like Action = iota
	Dislike
)

func (a Action) String() string {
	if a == Dislike {
		return "dislike"
	}
	return "like"
}

// Counts are the vote counters of a comment as the viewer currently sees them.
type Counts struct {
	Likes    domain.Count `json:"likes"`
	Dislikes domain.Count `json:"dislikes"`
}

func CountsOf(c *domain.Comment) Counts {
	return Counts{Likes: c.Likes, Dislikes: c.Dislikes}
}

type delta struct {
	likes    int
	dislikes int
}

func (d delta) negate() delta {
	return delta{likes: -d.likes, dislikes: -d.dislikes}
}

// add applies d, flooring each counter at zero, and reports the delta that
// actually took effect.
func (c Counts) add(d delta) (Counts, delta) {
	likes := domain.NewCount(c.Likes.Int() + d.likes)
	dislikes := domain.NewCount(c.Dislikes.Int() + d.dislikes)
	applied := delta{
		likes:    likes.Int() - c.Likes.Int(),
		dislikes: dislikes.Int() - c.Dislikes.Int(),
	}
	return Counts{Likes: likes, Dislikes: dislikes}, applied
}

// Transition moves a comment between states and carries the counter change.
type Transition struct {
	From  State
	To    State
	delta delta
}

// plan returns the transition for action taken in state from.
func plan(from State, action Action) (Transition, error) {
	switch action {
	case Like:
		switch from {
		case Liked:
			return Transition{}, ErrAlreadyVoted
		case Disliked:
			return Transition{From: from, To: Liked, delta: delta{likes: 1, dislikes: -1}}, nil
		default:
			return Transition{From: from, To: Liked, delta: delta{likes: 1}}, nil
		}
	case Dislike:
		switch from {
		case Disliked:
			return Transition{}, ErrAlreadyVoted
		case Liked:
			return Transition{From: from, To: Disliked, delta: delta{likes: -1, dislikes: 1}}, nil
		default:
			return Transition{From: from, To: Disliked, delta: delta{dislikes: 1}}, nil
		}
	}
	return Transition{}, errors.New("unknown vote action")
}

// apply returns the counters after t along with the transition that undoes
// exactly what was applied.
func (t Transition) apply(c Counts) (Counts, Transition) {
	next, applied := c.add(t.delta)
	return next, Transition{From: t.To, To: t.From, delta: applied.negate()}
}

package models

// Reaction weights. Positive sentiment counts up, negative counts down.
const (
	weightThumbsUp   = 2
	weightThumbsDown = -2
	weightLaugh      = 1
	weightConfused   = -1
	weightHeart      = 3
	weightHooray     = 3
)

// pullRequestOffset ranks every pull request above every issue
const pullRequestOffset = 1000

// Score collapses the per-kind reaction counts into one signed value
func (r Reactions) Score() int {
	return weightThumbsUp*r.ThumbsUp +
		weightThumbsDown*r.ThumbsDown +
		weightLaugh*r.Laugh +
		weightConfused*r.Confused +
		weightHeart*r.Heart +
		weightHooray*r.Hooray
}

// Score returns the relevance score used to order issues in digest views
func (i *Issue) Score() int {
	return i.Reactions.Score() + 2*i.CommentCount
}

// Score returns the relevance score for a pull request
func (p *PullRequest) Score() int {
	return pullRequestOffset + p.Reactions.Score() + 2*p.CommentCount
}

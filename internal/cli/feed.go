package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/learnloop/learnloop-cli/internal/models"
	"github.com/learnloop/learnloop-cli/internal/votes"
)

const excerptWords = 20

func parsePage(args []string) int {
	if len(args) == 0 {
		return 1
	}
	page, err := strconv.Atoi(args[0])
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func (a *App) Feed(ctx context.Context, args []string) error {
	feed, err := a.client.HomeFeed(ctx, parsePage(args), a.config.PageSize)
	if err != nil {
		a.printAPIError(err)
		return err
	}
	a.showFeed(ctx, feed)
	return nil
}

func (a *App) Topic(ctx context.Context, args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(a.out, "Usage: topic <id> [page]")
		return nil
	}
	topicID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "Usage: topic <id> [page]")
		return nil
	}

	feed, err := a.client.TopicFeed(ctx, topicID, parsePage(args[1:]), a.config.PageSize)
	if err != nil {
		a.printAPIError(err)
		return err
	}
	a.showFeed(ctx, feed)
	return nil
}

func (a *App) UserPosts(ctx context.Context, args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(a.out, "Usage: user <id> [page]")
		return nil
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "Usage: user <id> [page]")
		return nil
	}

	u, err := a.client.User(ctx, userID)
	if err != nil {
		a.printAPIError(err)
		return err
	}
	fmt.Fprintf(a.out, "%s", u.Username)
	if u.Bio != "" {
		fmt.Fprintf(a.out, " - %s", u.Bio)
	}
	fmt.Fprintln(a.out)

	feed, err := a.client.UserPosts(ctx, userID, parsePage(args[1:]), a.config.PageSize)
	if err != nil {
		a.printAPIError(err)
		return err
	}
	a.showFeed(ctx, feed)
	return nil
}

// showFeed replaces the current listing with the page's posts. Vote status
// for the whole page resolves in one prefetch batch; posts whose lookup
// failed keep the server-supplied count.
func (a *App) showFeed(ctx context.Context, feed *models.Feed) {
	a.dropListed()

	seeds := make([]votes.Seed, 0, len(feed.Posts))
	for _, p := range feed.Posts {
		seeds = append(seeds, votes.Seed{
			Target:        votes.Target{Type: models.TargetPost, ID: p.ID},
			FallbackCount: p.VoteCount,
		})
	}
	statuses := a.prefetch.Fetch(ctx, seeds)

	for _, p := range feed.Posts {
		target := votes.Target{Type: models.TargetPost, ID: p.ID}
		t := votes.NewTracker(a.client, a.cache, a.session, a.log, votes.Options{
			Target:           target,
			InitialCount:     p.VoteCount,
			DisableSelfFetch: true,
		})
		if st, ok := statuses[target]; ok {
			t.Apply(st)
		}

		excerpt := p.Excerpt
		if excerpt == "" {
			excerpt = Excerpt(p.Content, excerptWords)
		}
		label := fmt.Sprintf("%s by %s (%s)", p.Title, p.Author.Username, p.Topic.Name)
		a.listed = append(a.listed, listedItem{tracker: t, label: label})

		count, vote := t.Snapshot()
		fmt.Fprintf(a.out, "[%d] %s %s\n    %s\n", len(a.listed), renderVotes(count, vote), label, excerpt)
	}

	if feed.TotalPages > 1 {
		fmt.Fprintf(a.out, "Page %d of %d (%d posts)\n", feed.Page, feed.TotalPages, feed.Total)
	}
}

// renderVotes formats a count plus the caller's own-vote marker: '*' when
// voted, '~' while a toggle is awaiting the server.
func renderVotes(count int64, vote votes.UserVote) string {
	marker := " "
	if vote.Pending() {
		marker = "~"
	} else if vote.Active() {
		marker = "*"
	}
	return fmt.Sprintf("%3d%s", count, marker)
}

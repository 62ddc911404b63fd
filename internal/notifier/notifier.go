package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arnav127/sports-ladder/internal/events"
	"github.com/arnav127/sports-ladder/internal/models"
	"github.com/arnav127/sports-ladder/internal/repositories"
	"github.com/arnav127/sports-ladder/internal/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SendFunc delivers one email. Injectable so tests capture messages instead
// of talking SMTP.
type SendFunc func(to, subject, body string) error

// Notifier consumes match lifecycle events and emails the player who needs
// to act next. Emails carry action links with the match's token, so
// recipients can respond without signing in.
type Notifier struct {
	rdb     *redis.Client
	matches *repositories.MatchRepository
	players *repositories.PlayerRepository
	users   *repositories.UserRepository
	siteURL string
	logger  *zap.Logger
	send    SendFunc
}

func New(rdb *redis.Client, matches *repositories.MatchRepository, players *repositories.PlayerRepository, users *repositories.UserRepository, siteURL string, logger *zap.Logger) *Notifier {
	return &Notifier{
		rdb:     rdb,
		matches: matches,
		players: players,
		users:   users,
		siteURL: siteURL,
		logger:  logger,
		send:    utils.SendEmail,
	}
}

// WithSender overrides email delivery.
func (n *Notifier) WithSender(send SendFunc) *Notifier {
	n.send = send
	return n
}

// Run subscribes to the lifecycle channels and dispatches until the context
// is cancelled. Delivery failures are logged and skipped; the ladder state
// is already persisted by the time an event is published.
func (n *Notifier) Run(ctx context.Context) error {
	sub := n.rdb.Subscribe(ctx,
		events.EventMatchNew,
		events.EventMatchAction,
		events.EventMatchResult,
		events.EventMatchVerify,
	)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := n.handle(msg.Channel, msg.Payload); err != nil {
				n.logger.Error("failed to handle event",
					zap.String("channel", msg.Channel),
					zap.Error(err))
			}
		}
	}
}

func (n *Notifier) handle(channel, raw string) error {
	var payload events.Payload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return err
	}
	match, err := n.matches.GetMatchByID(payload.MatchID)
	if err != nil {
		return err
	}

	switch channel {
	case events.EventMatchNew:
		return n.notifyNewChallenge(match)
	case events.EventMatchAction:
		return n.notifyActioned(match, payload.Action)
	case events.EventMatchResult:
		return n.notifyResultReported(match)
	case events.EventMatchVerify:
		return n.notifyVerified(match, payload.Action)
	}
	n.logger.Warn("unknown event channel", zap.String("channel", channel))
	return nil
}

func (n *Notifier) notifyNewChallenge(match *models.Match) error {
	_, challengerUser, err := n.playerAndUser(match.Player1ID)
	if err != nil {
		return err
	}
	_, opponentUser, err := n.playerAndUser(match.Player2ID)
	if err != nil {
		return err
	}

	body := fmt.Sprintf(
		"%s has challenged you to a match.\n\n"+
			"Accept: %s\nDecline: %s\n",
		challengerUser.Username,
		n.actionLink(match, "action?action=accept"),
		n.actionLink(match, "action?action=reject"),
	)
	if match.Message != nil && *match.Message != "" {
		body += fmt.Sprintf("\nMessage from your challenger: %s\n", *match.Message)
	}
	return n.send(opponentUser.Email, "You have been challenged", body)
}

func (n *Notifier) notifyActioned(match *models.Match, action string) error {
	_, challengerUser, err := n.playerAndUser(match.Player1ID)
	if err != nil {
		return err
	}
	_, opponentUser, err := n.playerAndUser(match.Player2ID)
	if err != nil {
		return err
	}

	if action == "accept" {
		body := fmt.Sprintf(
			"%s accepted your challenge. Arrange the match, then report the result:\n\n%s\n",
			opponentUser.Username,
			n.actionLink(match, "submit-result"),
		)
		return n.send(challengerUser.Email, "Challenge accepted", body)
	}
	body := fmt.Sprintf("%s declined your challenge.\n", opponentUser.Username)
	return n.send(challengerUser.Email, "Challenge declined", body)
}

// notifyResultReported asks the participant who did not report to verify.
func (n *Notifier) notifyResultReported(match *models.Match) error {
	if match.ReportedBy == nil || match.WinnerID == nil {
		return fmt.Errorf("match %s has no reported result", match.ID)
	}
	verifierID := match.OpponentOf(*match.ReportedBy)
	_, verifierUser, err := n.playerAndUser(verifierID)
	if err != nil {
		return err
	}
	_, winnerUser, err := n.playerAndUser(*match.WinnerID)
	if err != nil {
		return err
	}

	body := fmt.Sprintf(
		"A result was reported for your match: %s won.\n\n"+
			"Confirm: %s\nDispute: %s\n",
		winnerUser.Username,
		n.actionLink(match, "verify?verify=yes"),
		n.actionLink(match, "verify?verify=no"),
	)
	return n.send(verifierUser.Email, "Please verify your match result", body)
}

func (n *Notifier) notifyVerified(match *models.Match, verdict string) error {
	if verdict == "no" {
		// The tentative result was cleared; tell both players to re-report.
		for _, id := range []string{match.Player1ID, match.Player2ID} {
			_, user, err := n.playerAndUser(id)
			if err != nil {
				return err
			}
			body := fmt.Sprintf(
				"The reported result was disputed. Please agree on the outcome and report again:\n\n%s\n",
				n.actionLink(match, "submit-result"),
			)
			if err := n.send(user.Email, "Match result disputed", body); err != nil {
				return err
			}
		}
		return nil
	}

	for _, id := range []string{match.Player1ID, match.Player2ID} {
		profile, user, err := n.playerAndUser(id)
		if err != nil {
			return err
		}
		body := fmt.Sprintf(
			"Your match result is confirmed. Your rating is now %d.\n",
			profile.Rating,
		)
		if err := n.send(user.Email, "Match confirmed", body); err != nil {
			return err
		}
	}
	return nil
}

func (n *Notifier) playerAndUser(profileID string) (*models.PlayerProfile, *models.User, error) {
	profile, err := n.players.GetProfileByID(profileID)
	if err != nil {
		return nil, nil, err
	}
	user, err := n.users.GetUserByID(profile.UserID)
	if err != nil {
		return nil, nil, err
	}
	return profile, user, nil
}

func (n *Notifier) actionLink(match *models.Match, pathAndQuery string) string {
	sep := "?"
	if strings.Contains(pathAndQuery, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s/api/v1/matches/%s/%s%stoken=%s",
		n.siteURL, match.ID, pathAndQuery, sep, match.ActionToken)
}

package contributions

import (
	"bytes"
	"commitblock/internal/interfaces"
	"commitblock/internal/models"
	"commitblock/internal/providers"
	"commitblock/internal/structures"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const calendarQuery = `query($login: String!, $from: DateTime!, $to: DateTime!) {
  user(login: $login) {
    contributionsCollection(from: $from, to: $to) {
      contributionCalendar {
        weeks {
          contributionDays {
            date
            contributionCount
          }
        }
      }
    }
  }
}`

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type contributionDay struct {
	Date              string `json:"date"`
	ContributionCount uint32 `json:"contributionCount"`
}

type calendarResponse struct {
	Data struct {
		User *struct {
			ContributionsCollection struct {
				ContributionCalendar struct {
					Weeks []struct {
						ContributionDays []contributionDay `json:"contributionDays"`
					} `json:"weeks"`
				} `json:"contributionCalendar"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// GithubSource counts a user's contributions for one day through the GitHub
// GraphQL contribution calendar.
type GithubSource struct {
	endpoint  string
	token     string
	userAgent string
	client    *http.Client
	logger    providers.Logger
}

func NewGithubSource(conf *structures.Config, logger providers.Logger) interfaces.ContributionSource {
	return &GithubSource{
		endpoint:  conf.Github.Endpoint,
		token:     conf.Github.Token,
		userAgent: conf.Github.UserAgent,
		client:    &http.Client{Timeout: conf.Github.Timeout},
		logger:    logger,
	}
}

func (g *GithubSource) TodayCount(ctx context.Context, username string, today time.Time) (uint32, error) {
	if username == "" {
		return 0, &QueryError{Username: username, Stage: "config", Cause: ErrNoUsername}
	}
	if g.token == "" {
		return 0, &QueryError{Username: username, Stage: "config", Cause: ErrNoToken}
	}

	y, m, d := today.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	to := from.AddDate(0, 0, 1).Add(-time.Second)

	body, err := json.Marshal(graphqlRequest{
		Query: calendarQuery,
		Variables: map[string]any{
			"login": username,
			"from":  from.Format(time.RFC3339),
			"to":    to.Format(time.RFC3339),
		},
	})
	if err != nil {
		return 0, &QueryError{Username: username, Stage: "encode", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, &QueryError{Username: username, Stage: "request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, &QueryError{Username: username, Stage: "transport", Cause: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, &QueryError{Username: username, Stage: "transport", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		return 0, &QueryError{Username: username, Stage: "status", Cause: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var decoded calendarResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return 0, &QueryError{Username: username, Stage: "decode", Cause: err}
	}
	if len(decoded.Errors) > 0 {
		messages := make([]string, 0, len(decoded.Errors))
		for _, e := range decoded.Errors {
			messages = append(messages, e.Message)
		}
		return 0, &QueryError{Username: username, Stage: "graphql", Cause: fmt.Errorf("%s", strings.Join(messages, "; "))}
	}
	if decoded.Data.User == nil {
		return 0, &QueryError{Username: username, Stage: "graphql", Cause: ErrUserNotFound}
	}

	date := today.Format(models.DateLayout)
	for _, week := range decoded.Data.User.ContributionsCollection.ContributionCalendar.Weeks {
		for _, day := range week.ContributionDays {
			if day.Date == date {
				g.logger.Debugf(providers.TypeEngine, "%s has %d contributions on %s", username, day.ContributionCount, date)
				return day.ContributionCount, nil
			}
		}
	}

	g.logger.Debugf(providers.TypeEngine, "No calendar entry for %s on %s", username, date)
	return 0, nil
}

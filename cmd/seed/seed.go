package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"userapi/internal/model"
	"userapi/internal/repository"
)

const (
	fetchTimeout     = 30 * time.Second
	fakeNicknameSize = 29
	fakePassword     = "password"
)

var (
	firstNames = []string{"Ada", "Grace", "Alan", "Linus", "Barbara", "Ken", "Margaret", "Dennis"}
	lastNames  = []string{"Lovelace", "Hopper", "Turing", "Torvalds", "Liskov", "Thompson", "Hamilton", "Ritchie"}

	nonSlug = regexp.MustCompile(`[^a-z0-9]+`)
)

func loadFile(path string) ([]model.CreateUserInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return decodeUsers(f)
}

func fetchURL(ctx context.Context, url string) ([]model.CreateUserInput, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source returned status code: %d", resp.StatusCode)
	}
	return decodeUsers(resp.Body)
}

func decodeUsers(r io.Reader) ([]model.CreateUserInput, error) {
	var users []model.CreateUserInput
	if err := json.NewDecoder(r).Decode(&users); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return users, nil
}

// slug lower-cases s and joins its alphanumeric runs with dashes.
func slug(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// fakeUsers builds n factory users. Nicknames are the slug of the name cut to
// 29 characters; emails carry a random suffix so reruns do not collide.
func fakeUsers(n int) []model.CreateUserInput {
	users := make([]model.CreateUserInput, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("%s %s %d",
			firstNames[i%len(firstNames)],
			lastNames[(i/len(firstNames))%len(lastNames)],
			i+1)
		nickname := slug(name)
		if len(nickname) > fakeNicknameSize {
			nickname = nickname[:fakeNicknameSize]
		}
		password := fakePassword

		users = append(users, model.CreateUserInput{
			Name:     &name,
			Nickname: nickname,
			Email:    fmt.Sprintf("%s.%s@example.com", nickname, uuid.NewString()[:8]),
			Password: &password,
		})
	}
	return users
}

// seedUsers creates each user. Rule violations are logged per user and
// counted; any other failure aborts the run.
func seedUsers(ctx context.Context, rec *repository.Recorder, users []model.CreateUserInput, log *zap.Logger) (created, rejected int, err error) {
	for i, in := range users {
		user, err := rec.Create(ctx, in)
		if rec.HasErrors() {
			rejected++
			for _, field := range rec.Errors().Fields() {
				log.Warn("user rejected",
					zap.Int("index", i),
					zap.String("nickname", in.Nickname),
					zap.String("field", field),
					zap.Strings("messages", rec.Errors()[field]))
			}
			continue
		}
		if err != nil {
			return created, rejected, fmt.Errorf("create user %d (%s): %w", i, in.Nickname, err)
		}
		created++
		log.Debug("user created", zap.Uint("user_id", user.ID), zap.String("nickname", user.Nickname))
	}
	return created, rejected, nil
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/quizdeck/quizdeck-gateway/internal/config"
	"github.com/quizdeck/quizdeck-gateway/internal/gateway"
	"github.com/quizdeck/quizdeck-gateway/internal/logger"
	"github.com/quizdeck/quizdeck-gateway/internal/model"
	"github.com/quizdeck/quizdeck-gateway/internal/session"
	"golang.org/x/term"
)

// probe logs into the upstream quiz service with the configured URL and
// prints the decoded identity, so a deployment can be verified without
// going through a browser.
func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	gw := gateway.New(cfg.QuizServiceURL, cfg.UpstreamTimeout, log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== QuizDeck Upstream Probe ===")
	fmt.Printf("Upstream: %s\n", cfg.QuizServiceURL)

	fmt.Print("Enter Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)
	if username == "" {
		fmt.Println("Error: Username is required")
		return
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input

	// ─── Logic ─────────────────────────────────────────────────────────
	result, err := gw.Login(ctx, username, password)
	if err != nil {
		log.Fatal().Err(err).Msg("Login failed")
	}

	identity, err := session.DecodeIdentity(result.Access)
	if err != nil {
		log.Fatal().Err(err).Msg("Access token is unreadable")
	}

	fmt.Printf("\nSuccess! Logged in as '%s' (id %d, role %s)\n",
		identity.Username, identity.SubjectID, identity.Role)

	switch identity.Role {
	case model.RoleStudent:
		quizzes, err := gw.AssignedQuizzes(ctx, result.Access)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to list assigned quizzes")
		}
		fmt.Printf("Assigned quizzes: %d\n", len(quizzes))
	case model.RoleTeacher:
		summary, err := gw.TeacherSummary(ctx, result.Access)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to fetch quiz summary")
		}
		fmt.Printf("Owned quizzes: %d\n", len(summary))
	}
}

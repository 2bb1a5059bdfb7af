package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/Freeeeeet/officehours_bot/internal/calendar"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"
)

func googleAuthCommand() *cli.Command {
	return &cli.Command{
		Name:  "google-auth",
		Usage: "Получить OAuth токен Google Calendar для синхронизации встреч",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "token-file", EnvVars: []string{"GOOGLE_TOKEN_FILE"}, Value: "google_token.json"},
		},
		Action: func(c *cli.Context) error {
			clientID := os.Getenv("GOOGLE_CLIENT_ID")
			clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
			if clientID == "" || clientSecret == "" {
				return fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set")
			}

			oauthConfig := calendar.GoogleOAuthConfig(clientID, clientSecret)
			authURL := oauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
			fmt.Fprintf(c.App.Writer, "Откройте ссылку и вставьте код авторизации:\n%s\n\nКод: ", authURL)

			code, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return fmt.Errorf("read authorization code: %w", err)
			}

			token, err := oauthConfig.Exchange(c.Context, strings.TrimSpace(code))
			if err != nil {
				return fmt.Errorf("exchange authorization code: %w", err)
			}

			tokenFile := c.String("token-file")
			if err := calendar.SaveToken(tokenFile, token); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Токен сохранён в %s\n", tokenFile)
			return nil
		},
	}
}

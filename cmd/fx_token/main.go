// Command fx_token mints a bearer token for calling the API locally.
//
//	fx_token -user u1 -tenant t1 -roles fx_admin
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/SscSPs/expense_fx_engine/internal/middleware"
	"github.com/SscSPs/expense_fx_engine/internal/platform/config"
)

func main() {
	userID := flag.String("user", "", "user ID (token subject)")
	tenantID := flag.String("tenant", "", "tenant ID")
	roles := flag.String("roles", "", "comma separated roles, e.g. fx_admin,fx_global_admin")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if *userID == "" || *tenantID == "" {
		logger.Error("both -user and -tenant are required")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var roleList []string
	for _, r := range strings.Split(*roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roleList = append(roleList, r)
		}
	}

	token, err := middleware.IssueToken(cfg.JWTSecret, cfg.JWTIssuer, *userID, *tenantID, roleList, *ttl)
	if err != nil {
		logger.Error("Failed to sign token", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(token)
}

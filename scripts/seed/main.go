package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/hakwonlab/center-schedule-api/pkg/config"
	"github.com/hakwonlab/center-schedule-api/pkg/database"
)

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS students (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		grade         TEXT NOT NULL DEFAULT '',
		student_phone TEXT NOT NULL DEFAULT '',
		parent_phone  TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS schedule_records (
		id          TEXT PRIMARY KEY,
		student_id  TEXT NOT NULL REFERENCES students(id),
		week_start  TEXT NOT NULL,
		day         TEXT NOT NULL,
		start_time  TEXT NOT NULL,
		end_time    TEXT NOT NULL,
		kind        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		saved_at    TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_schedule_records_student_week
		ON schedule_records (student_id, week_start)`,
	`CREATE INDEX IF NOT EXISTS idx_schedule_records_week
		ON schedule_records (week_start)`,
	`CREATE TABLE IF NOT EXISTS settings (
		id                  TEXT PRIMARY KEY,
		week_range_text     TEXT NOT NULL DEFAULT '',
		center_desc         TEXT NOT NULL DEFAULT '',
		center_example      TEXT NOT NULL DEFAULT '',
		external_desc       TEXT NOT NULL DEFAULT '',
		external_example    TEXT NOT NULL DEFAULT '',
		notification_footer TEXT NOT NULL DEFAULT '',
		created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'ADMIN',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

func main() {
	var (
		adminUser string
		adminPass string
		skipAdmin bool
	)

	flag.StringVar(&adminUser, "admin-user", "admin", "admin username to create or update")
	flag.StringVar(&adminPass, "admin-pass", "", "admin password (required unless -skip-admin)")
	flag.BoolVar(&skipAdmin, "skip-admin", false, "only apply the schema")
	flag.Parse()

	if !skipAdmin && adminPass == "" {
		fmt.Fprintln(os.Stderr, "missing -admin-pass")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer db.Close()

	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("failed to apply schema: %v", err)
		}
	}
	log.Println("schema applied")

	if skipAdmin {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPass), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (id, username, password_hash, role)
		VALUES ($1, $2, $3, 'ADMIN')
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash`,
		adminUser, adminUser, string(hash),
	)
	if err != nil {
		log.Fatalf("failed to upsert admin: %v", err)
	}
	log.Printf("admin user %q ready", adminUser)
}

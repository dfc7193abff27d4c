// Command migrate applies the BigQuery DDL migrations under
// migrations/bigquery to the configured project and dataset. Applied
// versions are recorded in a schema_migrations table; a checksum per
// migration detects edits to files that already ran.
package main

import (
	"context"
	"crypto/sha256"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/statement-normalizer/internal/config"
	"github.com/dvloznov/statement-normalizer/internal/logger"
	"github.com/joho/godotenv"
	"google.golang.org/api/iterator"
)

// Migration is a single versioned DDL file, with placeholders already
// substituted. Checksum is computed over the raw file content so the same
// migration applied to different datasets compares equal.
type Migration struct {
	Version  int
	Name     string
	Filename string
	SQL      string
	Checksum string
}

// AppliedMigration is a row from schema_migrations.
type AppliedMigration struct {
	Version   int
	Name      string
	AppliedAt time.Time
	Checksum  string
	AppliedBy string
}

var migrationPattern = regexp.MustCompile(`^(\d{4})_(.+)\.sql$`)

func main() {
	log := logger.New()

	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	projectID := flag.String("project", "", "GCP project ID (overrides config)")
	datasetID := flag.String("dataset", "", "BigQuery dataset ID (overrides config)")
	appliedBy := flag.String("applied-by", "migrate-cli", "Name recorded against applied migrations")
	migrationsDir := flag.String("migrations", "migrations/bigquery", "Path to migrations directory")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	project := cfg.ProjectID
	if *projectID != "" {
		project = *projectID
	}
	dataset := cfg.Dataset
	if *datasetID != "" {
		dataset = *datasetID
	}
	if project == "" {
		log.Fatal().Msg("No GCP project configured; set project_id in config, GOOGLE_CLOUD_PROJECT, or -project")
	}

	ctx := context.Background()

	client, err := bigquery.NewClient(ctx, project)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery client")
	}
	defer client.Close()

	log.Info().Str("project", project).Str("dataset", dataset).Msg("Connected to BigQuery")

	if err := ensureSchemaMigrationsTable(ctx, client, project, dataset); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure schema_migrations table")
	}

	migrations, err := readMigrations(*migrationsDir, project, dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read migrations")
	}
	log.Info().Int("count", len(migrations)).Msg("Found migration files")

	applied, err := getAppliedMigrations(ctx, client, project, dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list applied migrations")
	}
	log.Info().Int("count", len(applied)).Msg("Found already applied migrations")

	appliedByVersion := make(map[int]AppliedMigration, len(applied))
	for _, am := range applied {
		appliedByVersion[am.Version] = am
	}

	appliedCount := 0
	for _, m := range migrations {
		if prior, ok := appliedByVersion[m.Version]; ok {
			if prior.Checksum != "" && prior.Checksum != m.Checksum {
				log.Warn().
					Str("migration", m.Filename).
					Str("recorded", prior.Checksum).
					Str("current", m.Checksum).
					Msg("Applied migration file has changed since it ran")
			}
			log.Info().Str("migration", m.Filename).Msg("Skipping, already applied")
			continue
		}

		log.Info().Str("migration", m.Filename).Msg("Applying")

		if err := executeMigration(ctx, client, m); err != nil {
			log.Fatal().Err(err).Str("migration", m.Filename).Msg("Migration failed")
		}
		if err := recordMigration(ctx, client, project, dataset, m, *appliedBy); err != nil {
			log.Fatal().Err(err).Str("migration", m.Filename).Msg("Failed to record migration")
		}
		appliedCount++
	}

	if appliedCount == 0 {
		log.Info().Msg("No new migrations to apply; dataset is up to date")
	} else {
		log.Info().Int("applied", appliedCount).Msg("Migrations applied")
	}
}

func ensureSchemaMigrationsTable(ctx context.Context, client *bigquery.Client, project, dataset string) error {
	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS `+"`%s.%s.schema_migrations`"+` (
			version       INT64 NOT NULL,
			name          STRING NOT NULL,
			applied_at    TIMESTAMP NOT NULL,
			checksum      STRING,
			applied_by    STRING
		)
	`, project, dataset)

	return runStatement(ctx, client.Query(sql))
}

// parseMigrationFilename splits a NNNN_name.sql filename into its version
// and name, reporting false for anything that does not match.
func parseMigrationFilename(filename string) (version int, name string, ok bool) {
	matches := migrationPattern.FindStringSubmatch(filename)
	if matches == nil {
		return 0, "", false
	}
	version, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, "", false
	}
	return version, matches[2], true
}

// checksumFile returns the hex SHA-256 of the raw migration content,
// before placeholder substitution. Changing the target project or dataset
// must not read as an edit to the migration itself.
func checksumFile(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}

// readMigrations loads and sorts the migration files, substituting the
// {{PROJECT_ID}} and {{DATASET_ID}} placeholders.
func readMigrations(migrationsDir, project, dataset string) ([]Migration, error) {
	dir := migrationsDir
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		// Allow running from cmd/migrate during development.
		dir = "../../" + migrationsDir
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return nil, fmt.Errorf("migrations directory not found: %s", migrationsDir)
		}
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	var migrations []Migration
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		version, name, ok := parseMigrationFilename(file.Name())
		if !ok {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading file %s: %w", file.Name(), err)
		}

		sql := string(content)
		sql = strings.ReplaceAll(sql, "{{PROJECT_ID}}", project)
		sql = strings.ReplaceAll(sql, "{{DATASET_ID}}", dataset)

		migrations = append(migrations, Migration{
			Version:  version,
			Name:     name,
			Filename: file.Name(),
			SQL:      sql,
			Checksum: checksumFile(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

func getAppliedMigrations(ctx context.Context, client *bigquery.Client, project, dataset string) ([]AppliedMigration, error) {
	sql := fmt.Sprintf(`
		SELECT version, name, applied_at, checksum, applied_by
		FROM `+"`%s.%s.schema_migrations`"+`
		ORDER BY version ASC
	`, project, dataset)

	it, err := client.Query(sql).Read(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "Not found") {
			return nil, nil
		}
		return nil, fmt.Errorf("reading applied migrations: %w", err)
	}

	var applied []AppliedMigration
	for {
		var row struct {
			Version   int64
			Name      string
			AppliedAt time.Time
			Checksum  bigquery.NullString
			AppliedBy bigquery.NullString
		}

		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating results: %w", err)
		}

		am := AppliedMigration{
			Version:   int(row.Version),
			Name:      row.Name,
			AppliedAt: row.AppliedAt,
		}
		if row.Checksum.Valid {
			am.Checksum = row.Checksum.StringVal
		}
		if row.AppliedBy.Valid {
			am.AppliedBy = row.AppliedBy.StringVal
		}
		applied = append(applied, am)
	}

	return applied, nil
}

func executeMigration(ctx context.Context, client *bigquery.Client, migration Migration) error {
	return runStatement(ctx, client.Query(migration.SQL))
}

func recordMigration(ctx context.Context, client *bigquery.Client, project, dataset string, migration Migration, appliedBy string) error {
	sql := fmt.Sprintf(`
		INSERT INTO `+"`%s.%s.schema_migrations`"+`
		(version, name, applied_at, checksum, applied_by)
		VALUES (@version, @name, CURRENT_TIMESTAMP(), @checksum, @applied_by)
	`, project, dataset)

	query := client.Query(sql)
	query.Parameters = []bigquery.QueryParameter{
		{Name: "version", Value: migration.Version},
		{Name: "name", Value: migration.Name},
		{Name: "checksum", Value: migration.Checksum},
		{Name: "applied_by", Value: appliedBy},
	}

	return runStatement(ctx, query)
}

// runStatement executes a DML/DDL query and surfaces the job status error.
func runStatement(ctx context.Context, query *bigquery.Query) error {
	job, err := query.Run(ctx)
	if err != nil {
		return fmt.Errorf("running query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("job error: %w", err)
	}
	return nil
}

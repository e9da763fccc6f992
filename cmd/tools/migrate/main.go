package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const createClientRecords = `
CREATE TABLE IF NOT EXISTS client_records (
  scope VARCHAR(64) NOT NULL,
  record_key VARCHAR(64) NOT NULL,
  value JSON NOT NULL,
  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
  PRIMARY KEY (scope, record_key)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
`

const errDupKeyName = 1061

func main() {
	_ = godotenv.Load()
	dsn := flag.String("dsn", os.Getenv("DB_DSN"), "MySQL DSN")
	flag.Parse()

	if *dsn == "" {
		fmt.Fprintln(os.Stderr, "Error: -dsn not provided and DB_DSN not set")
		os.Exit(1)
	}

	db, err := gorm.Open(gormmysql.Open(*dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Exec(createClientRecords).Error; err != nil {
		log.Fatalf("Failed to create client_records: %v", err)
	}

	// rerunnable: an existing index is not an error
	err = db.Exec(`CREATE INDEX ix_client_records_updated_at ON client_records (updated_at)`).Error
	var me *mysql.MySQLError
	if err != nil && !(errors.As(err, &me) && me.Number == errDupKeyName) {
		log.Fatalf("Failed to create index: %v", err)
	}

	fmt.Println("client_records ready")
}

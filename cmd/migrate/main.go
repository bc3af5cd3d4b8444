// Migration entrypoint: applies the schema to the configured database and exits.
package main

import (
	"fmt"

	"github.com/waltherrera/Social-Media-Database/config"
	"github.com/waltherrera/Social-Media-Database/dao/migrate"
	"github.com/waltherrera/Social-Media-Database/dao/query"
)

func main() {
	db, err := query.Open(config.GetConfig())
	if err != nil {
		panic(fmt.Errorf("connect to database: %w", err))
	}
	if err := migrate.Run(db); err != nil {
		panic(err)
	}
}

// Package db wires PostgreSQL into a duende application through pgx.
//
// Connect opens a pool with retry, Migrate applies goose migrations from an
// fs.FS, and Healthcheck and Shutdown plug into the application run loop.
//
// Views never touch the pool directly. The Database middleware gives each
// request a Scoped session: the connection is acquired on first use and
// released once the view has returned, whether it failed or not.
//
//	func show(c duende.Context) (view.Data, error) {
//		conn, err := c.DB()
//		if err != nil {
//			return nil, err
//		}
//		var title string
//		err = conn.QueryRow(c, "SELECT title FROM posts WHERE id = $1", c.Query("id")).Scan(&title)
//		return view.Data{"title": title}, err
//	}
//
// Scoped.Tx runs a function in a transaction on the same connection.
//
// # Configuration
//
//	DUENDE_DATABASE_URL                 - connection URL (required)
//	DUENDE_DATABASE_MIGRATIONS_TABLE    - goose version table (default: duende_migrations)
//	DUENDE_DATABASE_MAX_CONNS           - pool size (default: 10)
//	DUENDE_DATABASE_MIN_CONNS           - idle connections kept open (default: 2)
//	DUENDE_DATABASE_HEALTHCHECK_PERIOD  - pool health check interval (default: 1m)
//	DUENDE_DATABASE_MAX_CONN_IDLE_TIME  - idle connection lifetime (default: 10m)
//	DUENDE_DATABASE_MAX_CONN_LIFETIME   - connection lifetime (default: 30m)
//	DUENDE_DATABASE_RETRY_ATTEMPTS      - connect attempts (default: 3)
//	DUENDE_DATABASE_RETRY_INTERVAL      - base retry interval (default: 5s)
package db

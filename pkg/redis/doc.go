// Package redis connects duende to Redis through go-redis.
//
// The client backs session.RedisStore. Connect retries while the server is
// starting, Healthcheck plugs into the readiness endpoint and Shutdown into
// the run loop:
//
//	client, err := redis.Connect(ctx, cfg)
//	app := duende.New(
//		duende.WithSessionStore(session.NewRedisStore(client)),
//		duende.WithHealthChecks(duende.Checks{"redis": redis.Healthcheck(client)}),
//	)
//	duende.Run(app, duende.WithShutdownHook(redis.Shutdown(client)))
package redis

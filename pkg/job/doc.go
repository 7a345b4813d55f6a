// Package job runs periodic background tasks on River, a Postgres backed queue.
//
// Tasks are registered with a cron schedule when the manager is created:
//
//	m, err := job.NewManager(pool,
//	    job.WithLogger(log),
//	    job.WithSessionCleanup(session.NewPostgresStore(pool), "@every 1h"),
//	    job.WithPeriodicTask("purge_drafts", "0 3 * * *", repo.PurgeDrafts),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := m.Start(ctx); err != nil {
//	    return err
//	}
//	defer m.Stop(ctx)
//
// Schedules use five cron fields (min hour day month weekday) or the
// descriptors "@hourly", "@daily", "@every <duration>" and friends. Each tick is
// a River job, so failed runs are retried and only one process runs a tick
// when several share the database.
//
// River's tables must exist before Start; run the River migrations with the
// application migrations.
//
// duende.WithJobs creates the manager and ties Start and Stop to the app lifecycle.
package job

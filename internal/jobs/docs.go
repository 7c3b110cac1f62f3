// Package jobs provides scheduled background tasks for the tracking service.
//
// Jobs use github.com/robfig/cron/v3 with second-resolution schedules.
//
// # Available Jobs
//
// DeliveryReconciliationJob retries the Delivered status writes that failed
// when a tracking session completed. Entries leave the backlog once stored,
// once the order turns out to be unknown or malformed, or after the configured
// number of attempts.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(sink, "*/30 * * * * *", 5, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
package jobs

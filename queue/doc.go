// Package queue provides delivery.DeliverFunc implementations that take
// collector requests off the GraphQL request path.
//
// Async hands descriptors to an in-process worker pool:
//
//	pool := queue.NewAsync(httpclient.New(), queue.WithWorkers(4))
//	defer pool.Close(ctx)
//
//	client.ExecuteWithLogging(ctx, stellate.Request{
//	    Operation: op,
//	    Deliver:   pool.Deliver,
//	}, exec)
//
// Redis pushes descriptors onto a Redis list, and a Drainer in another
// process pops and sends them:
//
//	q := queue.NewRedis(rdb)
//	req.Deliver = q.Deliver
//
//	drainer := queue.NewDrainer(rdb, httpclient.New())
//	err := drainer.Run(ctx)
//
// Delivery stays best effort. A full or closed pool, or a failed Redis
// push, is reported to the caller's DeliverFunc error path and logged by
// the dispatcher; undeliverable descriptors are dropped, never retried.
package queue

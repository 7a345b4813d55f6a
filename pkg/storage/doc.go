// Package storage publishes static resource trees to S3-compatible object
// storage.
//
// Create a bucket client from Config and publish a directory under a key
// prefix:
//
//	bucket, err := storage.New(storage.Config{
//		Bucket:    "assets",
//		AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
//		SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	res, err := storage.Publish(ctx, bucket, "resources/blog/static", "blog")
//
// Files whose remote object already has the same size and MD5 ETag are
// skipped, so publishing an unchanged tree uploads nothing. Content types
// are guessed from file extensions with a UTF-8 charset for text.
package storage

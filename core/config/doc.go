// Package config loads typed configuration from environment variables.
//
// A .env file in the working directory is read once on first use; variables
// already present in the environment win. Struct fields are bound with
// caarlos0/env tags:
//
//	type StorageConfig struct {
//		Bucket string `env:"S3_BUCKET,required"`
//		Region string `env:"S3_REGION" envDefault:"auto"`
//	}
//
//	var cfg StorageConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// Load caches the result per type, so every later Load of StorageConfig
// returns the same values. Parse skips the cache.
package config

/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package config

const (
	// server
	serverPrefix = "server."
	serverPort   = serverPrefix + "port"
	rootPath     = serverPrefix + "root_path"

	// zone
	zonePrefix     = "zone."
	greenZoneLabel = zonePrefix + "green_label"
	coreZoneLabel  = zonePrefix + "core_label"

	// download token
	downloadPrefix      = "download."
	downloadSecret      = downloadPrefix + "secret"
	tokenExpireSecond   = downloadPrefix + "token_expire_second"
	presignExpireSecond = downloadPrefix + "presign_expire_second"

	// upstream services
	servicePrefix           = "services."
	projectServiceEndpoint  = servicePrefix + "project"
	datasetServiceEndpoint  = servicePrefix + "dataset"
	metadataServiceEndpoint = servicePrefix + "metadata"
	dataopsServiceEndpoint  = servicePrefix + "dataops"

	// minio
	minioPrefix         = "minio."
	minioEndpoint       = minioPrefix + "endpoint"
	minioHTTPS          = minioPrefix + "https"
	minioPublicEndpoint = minioPrefix + "public_endpoint"
	minioPublicHTTPS    = minioPrefix + "public_https"
	minioAccessKey      = minioPrefix + "access_key"
	minioSecretKey      = minioPrefix + "secret_key"

	// redis
	redisPrefix   = "redis."
	redisHost     = redisPrefix + "host"
	redisPort     = redisPrefix + "port"
	redisUser     = redisPrefix + "user"
	redisPassword = redisPrefix + "password"
	redisDB       = redisPrefix + "db"

	// postgres
	dbPrefix       = "db."
	dbHost         = dbPrefix + "host"
	dbPort         = dbPrefix + "port"
	dbUser         = dbPrefix + "user"
	dbPassword     = dbPrefix + "password"
	dbName         = dbPrefix + "name"
	dbSchema       = dbPrefix + "schema"
	dbSSLMode      = dbPrefix + "ssl_mode"
	dbMaxOpenConns = dbPrefix + "max_open_conns"
	dbMaxIdleConns = dbPrefix + "max_idle_conns"

	// kafka
	kafkaPrefix          = "kafka."
	kafkaBrokers         = kafkaPrefix + "brokers"
	itemActivityTopic    = kafkaPrefix + "item_activity_topic"
	datasetActivityTopic = kafkaPrefix + "dataset_activity_topic"
)

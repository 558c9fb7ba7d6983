/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package config

import (
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// SetValue sets a configuration value for the specified key.
func SetValue(key string, value interface{}) {
	viper.Set(key, value)
}

// LoadConfig loads configuration from the specified file path.
func LoadConfig(path string) error {
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")
	return viper.ReadInConfig()
}

func getString(key, defaultValue string) string {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetString(key)
}

func getBool(key string, defaultValue bool) bool {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetBool(key)
}

func getInt(key string, defaultValue int) int {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetInt(key)
}

func getStrings(key string) []string {
	val := viper.GetString(key)
	return removeBlank(strings.Split(val, ","))
}

func removeBlank(slice []string) []string {
	var result []string
	for _, val := range slice {
		if trim := strings.TrimSpace(val); trim != "" {
			result = append(result, trim)
		}
	}
	return result
}

// GetServerPort returns the HTTP listen port.
func GetServerPort() int {
	return getInt(serverPort, 5077)
}

// GetRootPath returns the root of the local disk mount.
func GetRootPath() string {
	return getString(rootPath, ".")
}

// GetScratchPath returns the directory under which per-job scratch
// folders are created.
func GetScratchPath() string {
	return filepath.Join(GetRootPath(), "tmp")
}

// GetGreenZoneLabel returns the display label of zone 0.
func GetGreenZoneLabel() string {
	return getString(greenZoneLabel, "greenroom")
}

// GetCoreZoneLabel returns the display label of zone 1.
func GetCoreZoneLabel() string {
	return getString(coreZoneLabel, "core")
}

// GetDownloadSecret returns the shared secret that signs download tokens.
func GetDownloadSecret() string {
	return getString(downloadSecret, "indoc101")
}

// GetTokenExpireSecond returns the download token TTL in seconds.
func GetTokenExpireSecond() int {
	return getInt(tokenExpireSecond, 86400)
}

// GetPresignExpireSecond returns the presigned URL TTL in seconds.
func GetPresignExpireSecond() int {
	return getInt(presignExpireSecond, 3600)
}

// GetProjectServiceEndpoint returns the project service base URL.
func GetProjectServiceEndpoint() string {
	return strings.TrimSuffix(getString(projectServiceEndpoint, ""), "/")
}

// GetDatasetServiceEndpoint returns the dataset service base URL.
func GetDatasetServiceEndpoint() string {
	return strings.TrimSuffix(getString(datasetServiceEndpoint, ""), "/")
}

// GetMetadataServiceEndpoint returns the metadata service base URL.
func GetMetadataServiceEndpoint() string {
	return strings.TrimSuffix(getString(metadataServiceEndpoint, ""), "/")
}

// GetDataopsServiceEndpoint returns the dataops (lock) service base URL.
func GetDataopsServiceEndpoint() string {
	return strings.TrimSuffix(getString(dataopsServiceEndpoint, ""), "/")
}

// GetMinioEndpoint returns the internal object store endpoint.
func GetMinioEndpoint() string {
	return getString(minioEndpoint, "")
}

// IsMinioHTTPS returns whether the internal object store endpoint uses TLS.
func IsMinioHTTPS() bool {
	return getBool(minioHTTPS, false)
}

// GetMinioPublicEndpoint returns the externally reachable object store endpoint.
func GetMinioPublicEndpoint() string {
	return getString(minioPublicEndpoint, "")
}

// IsMinioPublicHTTPS returns whether the public object store endpoint uses TLS.
func IsMinioPublicHTTPS() bool {
	return getBool(minioPublicHTTPS, true)
}

// GetMinioAccessKey returns the object store access key.
func GetMinioAccessKey() string {
	return getString(minioAccessKey, "")
}

// GetMinioSecretKey returns the object store secret key.
func GetMinioSecretKey() string {
	return getString(minioSecretKey, "")
}

// GetRedisHost returns the redis host.
func GetRedisHost() string {
	return getString(redisHost, "127.0.0.1")
}

// GetRedisPort returns the redis port.
func GetRedisPort() int {
	return getInt(redisPort, 6379)
}

// GetRedisUser returns the redis user.
func GetRedisUser() string {
	return getString(redisUser, "default")
}

// GetRedisPassword returns the redis password.
func GetRedisPassword() string {
	return getString(redisPassword, "")
}

// GetRedisDB returns the redis logical database index.
func GetRedisDB() int {
	return getInt(redisDB, 0)
}

// GetDBHost returns the postgres host.
func GetDBHost() string {
	return getString(dbHost, "")
}

// GetDBPort returns the postgres port.
func GetDBPort() int {
	return getInt(dbPort, 5432)
}

// GetDBUser returns the postgres user.
func GetDBUser() string {
	return getString(dbUser, "")
}

// GetDBPassword returns the postgres password.
func GetDBPassword() string {
	return getString(dbPassword, "")
}

// GetDBName returns the postgres database name.
func GetDBName() string {
	return getString(dbName, "")
}

// GetDBSchema returns the schema holding the approval tables.
func GetDBSchema() string {
	return getString(dbSchema, "public")
}

// GetDBSSLMode returns the postgres sslmode.
func GetDBSSLMode() string {
	return getString(dbSSLMode, "disable")
}

// GetDBMaxOpenConns returns the maximum open connections of the pool.
func GetDBMaxOpenConns() int {
	return getInt(dbMaxOpenConns, 16)
}

// GetDBMaxIdleConns returns the maximum idle connections of the pool.
func GetDBMaxIdleConns() int {
	return getInt(dbMaxIdleConns, 4)
}

// GetKafkaBrokers returns the kafka bootstrap brokers.
func GetKafkaBrokers() []string {
	return getStrings(kafkaBrokers)
}

// GetItemActivityTopic returns the topic for item download activity.
func GetItemActivityTopic() string {
	return getString(itemActivityTopic, "metadata.items.activity")
}

// GetDatasetActivityTopic returns the topic for dataset download activity.
func GetDatasetActivityTopic() string {
	return getString(datasetActivityTopic, "dataset.activity")
}

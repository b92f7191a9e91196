package main

import (
	"docvault/pkg/logger"
	"docvault/pkg/rabbitmq"
	"docvault/pkg/utilities"
	"docvault/src/auth"
	"docvault/src/database"
	"docvault/src/external"
	"docvault/src/middleware"
	"docvault/src/outbox"
)

type ApiConfigJson struct {
	LoggerConf     logger.LoggerConfigJson       `json:"logger"`
	RabbitmqConf   rabbitmq.RabbitmqConfigJson   `json:"rabbitmq"`
	RestConf       ApiRestConfigJson             `json:"rest"`
	DatabaseConf   database.DatabaseConfigJson   `json:"database"`
	AuthConf       auth.AuthConfigJson           `json:"auth"`
	RedisConf      auth.RedisConfigJson          `json:"redis"`
	CloudinaryConf external.CloudinaryConfigJson `json:"cloudinary"`
	IpfsConf       external.IpfsConfigJson       `json:"ipfs"`
	SolanaConf     external.SolanaConfigJson     `json:"solana"`
	OutboxConf     outbox.OutboxConfigJson       `json:"outbox"`
	CorsConf       middleware.CorsConfigJson     `json:"cors"`
}

func (acj ApiConfigJson) ConvertToDomain() ApiConfig {
	return ApiConfig{
		LoggerConf:     acj.LoggerConf.ConvertToDomain(),
		RabbitmqConf:   acj.RabbitmqConf.ConvertToDomain(),
		RestConf:       acj.RestConf.ConvertToDomain(),
		DatabaseConf:   acj.DatabaseConf.ConvertToDomain(),
		AuthConf:       acj.AuthConf.ConvertToDomain(),
		RedisConf:      acj.RedisConf.ConvertToDomain(),
		CloudinaryConf: acj.CloudinaryConf.ConvertToDomain(),
		IpfsConf:       acj.IpfsConf.ConvertToDomain(),
		SolanaConf:     acj.SolanaConf.ConvertToDomain(),
		OutboxConf:     acj.OutboxConf.ConvertToDomain(),
		CorsConf:       acj.CorsConf.ConvertToDomain(),
	}
}

type ApiConfig struct {
	LoggerConf     logger.LoggerConfig
	RabbitmqConf   rabbitmq.RabbitmqConfig
	RestConf       ApiRestConfig
	DatabaseConf   database.DatabaseConfig
	AuthConf       auth.AuthConfig
	RedisConf      auth.RedisConfig
	CloudinaryConf external.CloudinaryConfig
	IpfsConf       external.IpfsConfig
	SolanaConf     external.SolanaConfig
	OutboxConf     outbox.OutboxConfig
	CorsConf       middleware.CorsConfig
}

func (ac ApiConfig) GetLoggerConfig() logger.LoggerConfig {
	return ac.LoggerConf
}

func (ac ApiConfig) GetRabbitmqConfig() rabbitmq.RabbitmqConfig {
	return ac.RabbitmqConf
}

func (ac ApiConfig) GetRestApiPort() uint16 {
	return ac.RestConf.Port
}

func (ac ApiConfig) GetDatabaseConfig() database.DatabaseConfig {
	return ac.DatabaseConf
}

type ApiRestConfigJson struct {
	Port uint16 `json:"port"`
}

type ApiRestConfig struct {
	Port uint16
}

func (arcj ApiRestConfigJson) ConvertToDomain() ApiRestConfig {
	return ApiRestConfig{
		Port: utilities.Ternary(arcj.Port == 0, uint16(9000), arcj.Port),
	}
}

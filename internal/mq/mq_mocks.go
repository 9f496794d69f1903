package mq

//go:generate moq -pkg mocks -out ./mocks/mq_client_mock.go . MessageQueueClient

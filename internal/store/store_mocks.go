package store

//go:generate moq -pkg mocks -out ./mocks/sink_store_mock.go . SinkStore

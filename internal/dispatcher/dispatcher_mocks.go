package dispatcher

//go:generate moq -pkg mocks -out ./mocks/event_handler_mock.go . EventHandler

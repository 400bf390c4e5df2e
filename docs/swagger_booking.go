package docs

// @title           Taxi Booking Service API
// @version         1.0
// @description     Booking service manages the taxi booking lifecycle, driver assignment, live location tracking and real-time event delivery over WebSocket.

// @contact.name   API Support

// @host      localhost:3000
// @BasePath  /

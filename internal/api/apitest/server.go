package apitest

// Учетная запись, которую заводят тестовый сервер и fake-backend по умолчанию
const (
	TestUser     = "admin@tenders.dz"
	TestPassword = "secret"
)

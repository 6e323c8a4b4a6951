package models

// Статусы конфигурационного параметра.
const (
	ParameterActive   = "activo"
	ParameterInactive = "inactivo"
)

// Parameter небольшое именованное значение конфигурации (URL, контакт),
// которое приложение читает из хранилища по тегу во время работы.
//
// Значение нетипизировано: в документах встречаются и строки, и числа,
// поэтому Value хранится строкой.
type Parameter struct {
	ID     string `json:"id"`     // Идентификатор документа
	Tag    string `json:"tag"`    // Ключ поиска
	Status string `json:"status"` // activo или inactivo
	Value  string `json:"value"`  // Значение параметра
	Detail string `json:"detail"` // Произвольное описание
}

package model

// NormalizeLabels приводит метки из представления backend'а к плоскому
// списку строк.
//
// Поддерживаемые формы:
//   - []string / []any со строками: ["Cat"]
//   - элементы в виде тегированных скаляров DynamoDB: [{"S": "Cat"}]
//   - список, обёрнутый в {"L": [...]} (сырой AttributeValue)
//
// Всё, что не является строкой, отбрасывается. nil и неизвестные формы
// дают пустой (не nil) срез.
func NormalizeLabels(raw any) []string {
	result := make([]string, 0)

	switch v := raw.(type) {
	case nil:
	case []string:
		for _, s := range v {
			if s != "" {
				result = append(result, s)
			}
		}
	case []any:
		for _, item := range v {
			if s, ok := labelString(item); ok {
				result = append(result, s)
			}
		}
	case map[string]any:
		if inner, ok := v["L"]; ok {
			return NormalizeLabels(inner)
		}
		if inner, ok := v["SS"]; ok {
			return NormalizeLabels(inner)
		}
	}

	return result
}

// labelString извлекает строковое значение одной метки.
func labelString(item any) (string, bool) {
	switch v := item.(type) {
	case string:
		return v, v != ""
	case map[string]any:
		s, ok := v["S"].(string)
		return s, ok && s != ""
	case map[string]string:
		s, ok := v["S"]
		return s, ok && s != ""
	}
	return "", false
}

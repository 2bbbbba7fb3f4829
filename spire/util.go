package spire

import "encoding/json"

func reverseDict[E comparable](dict map[E]string) map[string]E {
	out := make(map[string]E, len(dict))
	for k, v := range dict {
		out[v] = k
	}
	return out
}

func decodeName(data []byte) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", err
	}
	return s, nil
}

func containsString(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}

package common

// Families is the number of bug sprite families.
const Families = 10

// Family picks a sprite family from the last character of a bug id.
func Family(id string) int {
	if id == "" {
		return 0
	}
	c := id[len(id)-1]
	if c >= '0' && c <= '9' {
		return int(c - '0')
	}
	return int(c) % Families
}

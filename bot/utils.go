package bot

import "strconv"

func parseSnowflake(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}

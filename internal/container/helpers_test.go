package container

import logger "github.com/PolarWolf314/stowaway/internal/logging"

func loggerForTests() logger.Logger {
	return logger.Logger{}
}

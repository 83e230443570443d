package classifier

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// determineThreadCount calculates the interpreter thread count from the
// configured value and the host CPU. Zero selects the physical core count,
// which keeps inference off hyper-threaded siblings.
func determineThreadCount(configuredThreads int) int {
	systemCPUCount := runtime.NumCPU()

	if configuredThreads <= 0 {
		if cores := cpuid.CPU.PhysicalCores; cores > 0 {
			return min(cores, systemCPUCount)
		}
		return systemCPUCount
	}

	return min(configuredThreads, systemCPUCount)
}

// cpuBrand is logged at model load
func cpuBrand() string {
	if cpuid.CPU.BrandName != "" {
		return cpuid.CPU.BrandName
	}
	return runtime.GOARCH
}

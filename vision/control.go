package vision

import (
	"math"

	"go-firewatch/types"
)

// MinimalAngleDiff returns the signed angular difference a-b folded into
// (-180, 180], the shortest rotation taking bearing b onto bearing a.
func MinimalAngleDiff(a, b float64) float64 {
	diff := math.Mod(a-b, 360)
	if diff < 0 {
		diff += 360
	}
	if diff > 180 {
		diff -= 360
	}
	return diff
}

// FOVFromZoom estimates the horizontal field of view (degrees) of a PTZ
// camera at the given zoom level. Quadratic fit against the deployed
// camera optics; zoom 0 is the calibrated wide-angle reference.
func FOVFromZoom(z float64) float64 {
	if z == 0 {
		return 54.2
	}
	return 55.59044 - 2.00815*z + 0.01886*z*z
}

// Pose identifies a preset camera pose resolved for a target azimuth.
type Pose struct {
	CameraName string
	IP         string
	PoseID     int
	Azimuth    float64
}

// ClosestPose scans the preset poses of the given PTZ cameras and returns
// the one whose azimuth is angularly closest to target, along with the
// signed shift still needed after moving there. Cameras with missing or
// mismatched pose data are skipped. Returns nil when no candidate exists.
func ClosestPose(target float64, cameras []types.PTZCamera) (*Pose, float64) {
	var closest *Pose
	minAbsDiff := math.Inf(1)
	signedShift := 0.0

	for _, cam := range cameras {
		if len(cam.Azimuths) == 0 || len(cam.Azimuths) != len(cam.Poses) {
			continue
		}
		for i, az := range cam.Azimuths {
			rawDiff := MinimalAngleDiff(target, az)
			absDiff := math.Abs(rawDiff)
			if absDiff < minAbsDiff {
				minAbsDiff = absDiff
				signedShift = rawDiff
				closest = &Pose{
					CameraName: cam.Name,
					IP:         cam.IP,
					PoseID:     cam.Poses[i],
					Azimuth:    az,
				}
				if absDiff == 0 {
					return closest, signedShift
				}
			}
		}
	}

	return closest, signedShift
}

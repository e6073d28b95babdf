package types

// Camera is a fixed watchtower camera as reported by the platform registry.
// Reference data: the service reads it, never mutates it upstream.
type Camera struct {
	ID           int64   `json:"id" firestore:"id"`
	Name         string  `json:"name" firestore:"name"`
	Lat          float64 `json:"lat" firestore:"lat"`
	Lon          float64 `json:"lon" firestore:"lon"`
	AngleOfView  float64 `json:"angle_of_view" firestore:"angleOfView"` // full field-of-view width, degrees
	Azimuth      float64 `json:"azimuth" firestore:"azimuth"`           // current pointing direction
	LastActiveAt string  `json:"last_active_at,omitempty" firestore:"lastActiveAt,omitempty"`
	Address      string  `json:"address,omitempty" firestore:"address,omitempty"` // filled by reverse geocoding
}

// Sequence is a clustered run of detections from one camera judged to be the
// same candidate wildfire event. Grouping happens server-side on the
// platform; we only consume the result.
type Sequence struct {
	ID         int64       `json:"id" firestore:"id"`
	CameraID   int64       `json:"camera_id" firestore:"cameraId"`
	Azimuth    float64     `json:"azimuth" firestore:"azimuth"`
	StartedAt  string      `json:"started_at" firestore:"startedAt"`
	LastSeenAt string      `json:"last_seen_at" firestore:"lastSeenAt"`
	IsWildfire *bool       `json:"is_wildfire" firestore:"isWildfire"` // nil until an operator labels it
	Detections []Detection `json:"detections,omitempty" firestore:"detections,omitempty"`
}

// Detection is one inference result belonging to a sequence: a captured
// frame, the camera azimuth at capture time and the predicted boxes.
type Detection struct {
	ID         int64   `json:"id" firestore:"id"`
	SequenceID int64   `json:"sequence_id" firestore:"sequenceId"`
	CameraID   int64   `json:"camera_id" firestore:"cameraId"`
	CreatedAt  string  `json:"created_at" firestore:"createdAt"`
	Azimuth    float64 `json:"azimuth" firestore:"azimuth"`
	// Bboxes is the raw platform payload: a JSON array literal of
	// [x0, y0, x1, y1, confidence] rows in normalized [0,1] coordinates.
	Bboxes string `json:"bboxes" firestore:"bboxes"`
	URL    string `json:"url" firestore:"url"`
}

// PTZCamera describes the preset poses of a steerable camera. Azimuths and
// Poses are parallel: Poses[i] is the preset id pointing at Azimuths[i].
type PTZCamera struct {
	Name     string    `json:"name"`
	IP       string    `json:"ip"`
	Azimuths []float64 `json:"azimuths"`
	Poses    []int     `json:"poses"`
}

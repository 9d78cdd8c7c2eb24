package render

import "errors"

var ErrImageFull = errors.New("render: image already holds every pixel")

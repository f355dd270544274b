// Package s3 checks the object storage bucket that the image-generation
// service writes its results to.
//
// The service inside the pod uploads every generated image to S3. A missing
// or unreachable bucket only surfaces on the first generation request, long
// after a GPU pod has started billing, so deploy verifies it up front.
package s3

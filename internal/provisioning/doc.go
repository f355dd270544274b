// Package provisioning turns a deployment configuration into a running,
// verified GPU pod.
//
// The flow has three parts:
//
//   - [BuildRequest] validates options and applies defaults, producing an
//     immutable [ProvisionRequest]. It performs no I/O.
//   - [Orchestrator] submits the request once and then polls the pod. Each
//     snapshot is classified by the pure [Evaluate] function; transient
//     API failures are logged and polling continues until the pod is
//     ready, reaches a terminal phase, the timeout elapses, or the context
//     is cancelled.
//   - [Report] turns the final [DeploymentOutcome] into a [Summary] with
//     the proxy URL and SSH target, or the failure reason and the id of
//     the pod left behind.
//
// Waiting goes through a [Clock] so the poll loop can be tested without
// real time passing.
package provisioning

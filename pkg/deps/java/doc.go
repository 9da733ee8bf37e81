// Package java extracts Maven coordinates from pom.xml and Gradle build
// scripts (Groovy build.gradle and Kotlin build.gradle.kts).
//
// Dependencies are named "groupId:artifactId". In pom.xml, ${property}
// references in versions are resolved from <properties> and the project
// version; test and provided scopes are development. In Gradle scripts,
// string, Kotlin call, and map notations are recognized; configurations
// containing "test" and compileOnly are development.
//
// Imports come from Java and Kotlin import statements reduced to their first
// two package segments, skipping platform packages.
package java
